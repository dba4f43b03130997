package postgres

import (
	"context"
	"fmt"

	"clearview/internal/repository/tables"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Dialect renders table definitions as PostgreSQL DDL
var Dialect = tables.Dialect{
	ID: "UUID PRIMARY KEY",
	Types: map[tables.ColumnType]string{
		tables.Text:      "TEXT NOT NULL",
		tables.NullText:  "TEXT",
		tables.Int:       "INTEGER NOT NULL",
		tables.NullInt:   "INTEGER",
		tables.Bool:      "BOOLEAN NOT NULL",
		tables.Timestamp: "TIMESTAMPTZ NOT NULL",
	},
}

// Migrate creates every table and index that does not exist yet
func Migrate(ctx context.Context, pool *pgxpool.Pool, names *tables.Names) error {
	for _, s := range tables.Schemas() {
		name := names.Of(s.Base)
		if _, err := pool.Exec(ctx, s.CreateTable(name, Dialect)); err != nil {
			return fmt.Errorf("create table %s: %w", name, err)
		}
		for _, idx := range s.CreateIndexes(name) {
			if _, err := pool.Exec(ctx, idx); err != nil {
				return fmt.Errorf("create index on %s: %w", name, err)
			}
		}
	}
	return nil
}

// DropAll drops every table for the prefix
func DropAll(ctx context.Context, pool *pgxpool.Pool, names *tables.Names) error {
	for _, name := range names.All() {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", name)); err != nil {
			return fmt.Errorf("drop table %s: %w", name, err)
		}
	}
	return nil
}

// ClearAll deletes every row but keeps the tables
func ClearAll(ctx context.Context, pool *pgxpool.Pool, names *tables.Names) error {
	for _, name := range names.All() {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", name)); err != nil {
			return fmt.Errorf("clear table %s: %w", name, err)
		}
	}
	return nil
}
