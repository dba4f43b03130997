package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"clearview/internal/repository/tables"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryConfig is shared by the Postgres repositories
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *tables.Names
	Logger *slog.Logger
}

// PoolOptions sizes the connection pool; zero values keep the pgx defaults
type PoolOptions struct {
	MaxConns int32
	MinConns int32
}

// CreateConnectionPool opens a pgx pool and pings it.
//
// Port 6543 is the Supabase transaction pooler (PgBouncer), which does not
// support prepared statements. When it is detected and the connection string
// did not pick a mode itself, statement descriptions are cached instead of
// prepared statements (QueryExecModeCacheDescribe).
func CreateConnectionPool(ctx context.Context, databaseURL string, opts PoolOptions, logger *slog.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = slog.Default()
	}
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	if opts.MinConns > 0 && opts.MinConns <= config.MaxConns {
		config.MinConns = opts.MinConns
	}

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		logger.Debug("using cache_describe mode behind the transaction pooler", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("postgres pool ready",
		"host", config.ConnConfig.Host,
		"max_conns", config.MaxConns,
		"min_conns", config.MinConns,
	)
	return pool, nil
}
