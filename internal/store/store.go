// Package store opens the configured database and assembles the ordered
// collection and record lifecycle managers on top of it.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"clearview/internal/config"
	"clearview/internal/domain/services"
	"clearview/internal/repository/postgres"
	pgContent "clearview/internal/repository/postgres/content"
	pgRecords "clearview/internal/repository/postgres/records"
	"clearview/internal/repository/sqlite"
	"clearview/internal/repository/tables"
	"clearview/internal/service/lifecycle"
	"clearview/internal/service/ordering"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Options selects and configures the backing store
type Options struct {
	Driver      string
	DatabaseURL string
	Pool        postgres.PoolOptions
	SQLitePath  string
	TablePrefix string
	Policy      lifecycle.Policy
	Revalidator services.Revalidator
	Logger      *slog.Logger
}

// OptionsFromConfig derives store options from application config
func OptionsFromConfig(cfg *config.Config, revalidator services.Revalidator, logger *slog.Logger) Options {
	return Options{
		Driver:      cfg.StoreDriver,
		DatabaseURL: cfg.DatabaseURL,
		Pool:        postgres.PoolOptions{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns},
		SQLitePath:  cfg.SQLitePath,
		TablePrefix: cfg.TablePrefix,
		Policy: lifecycle.Policy{
			ReactivateOnRestore:     cfg.ReactivateOnRestore(),
			PurgeRequiresSoftDelete: cfg.PurgeRequiresSoftDelete,
		},
		Revalidator: revalidator,
		Logger:      logger,
	}
}

// Store owns the database handle and the managers built on it
type Store struct {
	Collections *ordering.Registry
	Records     *lifecycle.Registry

	driver string
	names  *tables.Names
	pool   *pgxpool.Pool
	db     *sql.DB
}

// Open connects to the configured database and wires every manager
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	names := tables.NewNames(opts.TablePrefix)

	switch opts.Driver {
	case config.StoreDriverPostgres:
		if opts.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres store")
		}
		pool, err := postgres.CreateConnectionPool(ctx, opts.DatabaseURL, opts.Pool, opts.Logger)
		if err != nil {
			return nil, err
		}
		s := &Store{driver: opts.Driver, names: names, pool: pool}
		s.Collections, s.Records = postgresManagers(pool, names, opts)
		return s, nil

	case config.StoreDriverSQLite:
		db, err := sqlite.Open(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		s := &Store{driver: opts.Driver, names: names, db: db}
		s.Collections, s.Records = sqliteManagers(db, names, opts)
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}

// Driver returns the store driver name
func (s *Store) Driver() string { return s.driver }

// Tables returns the prefixed table names in use
func (s *Store) Tables() *tables.Names { return s.names }

// Migrate creates missing tables
func (s *Store) Migrate(ctx context.Context) error {
	if s.pool != nil {
		return postgres.Migrate(ctx, s.pool, s.names)
	}
	return sqlite.Migrate(ctx, s.db, s.names)
}

// DropAll drops every table
func (s *Store) DropAll(ctx context.Context) error {
	if s.pool != nil {
		return postgres.DropAll(ctx, s.pool, s.names)
	}
	return sqlite.DropAll(ctx, s.db, s.names)
}

// ClearAll deletes every row
func (s *Store) ClearAll(ctx context.Context) error {
	if s.pool != nil {
		return postgres.ClearAll(ctx, s.pool, s.names)
	}
	return sqlite.ClearAll(ctx, s.db, s.names)
}

// Ping checks the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	return s.db.PingContext(ctx)
}

// Close releases the database handle
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
}

func postgresManagers(pool *pgxpool.Pool, names *tables.Names, opts Options) (*ordering.Registry, *lifecycle.Registry) {
	rc := &postgres.RepositoryConfig{Pool: pool, Tables: names, Logger: opts.Logger}
	tx := postgres.NewTransactionManager(pool, opts.Logger)
	reval, logger, policy := opts.Revalidator, opts.Logger, opts.Policy

	collections := ordering.NewRegistry(
		ordering.NewManager(pgContent.NewOrderedRepository(rc, tables.FAQTable), tx, reval, logger),
		ordering.NewManager(pgContent.NewOrderedRepository(rc, tables.AboutSectionTable), tx, reval, logger),
		ordering.NewManager(pgContent.NewOrderedRepository(rc, tables.HomeValueTable), tx, reval, logger),
		ordering.NewManager(pgContent.NewOrderedRepository(rc, tables.ServiceTable), tx, reval, logger),
	)
	recordSets := lifecycle.NewRegistry(
		lifecycle.NewManager(pgRecords.NewLifecycleRepository(rc, tables.TestimonialTable), tx, policy, reval, logger),
		lifecycle.NewManager(pgRecords.NewLifecycleRepository(rc, tables.CustomerTable), tx, policy, reval, logger),
		lifecycle.NewManager(pgRecords.NewLifecycleRepository(rc, tables.AppointmentTable), tx, policy, reval, logger),
	)
	return collections, recordSets
}

func sqliteManagers(db *sql.DB, names *tables.Names, opts Options) (*ordering.Registry, *lifecycle.Registry) {
	rc := &sqlite.RepositoryConfig{DB: db, Tables: names, Logger: opts.Logger}
	tx := sqlite.NewTransactionManager(db, opts.Logger)
	reval, logger, policy := opts.Revalidator, opts.Logger, opts.Policy

	collections := ordering.NewRegistry(
		ordering.NewManager(sqlite.NewOrderedRepository(rc, tables.FAQTable), tx, reval, logger),
		ordering.NewManager(sqlite.NewOrderedRepository(rc, tables.AboutSectionTable), tx, reval, logger),
		ordering.NewManager(sqlite.NewOrderedRepository(rc, tables.HomeValueTable), tx, reval, logger),
		ordering.NewManager(sqlite.NewOrderedRepository(rc, tables.ServiceTable), tx, reval, logger),
	)
	recordSets := lifecycle.NewRegistry(
		lifecycle.NewManager(sqlite.NewLifecycleRepository(rc, tables.TestimonialTable), tx, policy, reval, logger),
		lifecycle.NewManager(sqlite.NewLifecycleRepository(rc, tables.CustomerTable), tx, policy, reval, logger),
		lifecycle.NewManager(sqlite.NewLifecycleRepository(rc, tables.AppointmentTable), tx, policy, reval, logger),
	)
	return collections, recordSets
}
