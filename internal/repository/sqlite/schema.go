package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"clearview/internal/repository/tables"
)

// Dialect renders table definitions as SQLite DDL. Timestamps are declared
// TIMESTAMP so the driver parses them back into time.Time.
var Dialect = tables.Dialect{
	ID: "TEXT PRIMARY KEY",
	Types: map[tables.ColumnType]string{
		tables.Text:      "TEXT NOT NULL",
		tables.NullText:  "TEXT",
		tables.Int:       "INTEGER NOT NULL",
		tables.NullInt:   "INTEGER",
		tables.Bool:      "BOOLEAN NOT NULL",
		tables.Timestamp: "TIMESTAMP NOT NULL",
	},
}

// Migrate creates every table and index that does not exist yet
func Migrate(ctx context.Context, db *sql.DB, names *tables.Names) error {
	for _, s := range tables.Schemas() {
		name := names.Of(s.Base)
		if _, err := db.ExecContext(ctx, s.CreateTable(name, Dialect)); err != nil {
			return fmt.Errorf("create table %s: %w", name, err)
		}
		for _, idx := range s.CreateIndexes(name) {
			if _, err := db.ExecContext(ctx, idx); err != nil {
				return fmt.Errorf("create index on %s: %w", name, err)
			}
		}
	}
	return nil
}

// DropAll drops every table for the prefix
func DropAll(ctx context.Context, db *sql.DB, names *tables.Names) error {
	for _, name := range names.All() {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", name)); err != nil {
			return fmt.Errorf("drop table %s: %w", name, err)
		}
	}
	return nil
}

// ClearAll deletes every row but keeps the tables
func ClearAll(ctx context.Context, db *sql.DB, names *tables.Names) error {
	for _, name := range names.All() {
		if _, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", name)); err != nil {
			return fmt.Errorf("clear table %s: %w", name, err)
		}
	}
	return nil
}
