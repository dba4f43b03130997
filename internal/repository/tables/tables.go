// Package tables describes how each entity maps onto a relational table.
// The Postgres and SQLite repositories share these definitions and differ
// only in placeholders, column types and locking.
package tables

import (
	"fmt"
	"strings"

	"clearview/internal/domain/models/content"
	"clearview/internal/domain/models/records"
)

// ColumnType is a backend-neutral column type
type ColumnType int

const (
	Text ColumnType = iota
	NullText
	Int
	NullInt
	Bool
	Timestamp
)

// Column is one payload column
type Column struct {
	Name string
	Type ColumnType
}

// Names holds environment-prefixed table names
type Names struct {
	prefix string
}

// NewNames creates table names with the given prefix
func NewNames(prefix string) *Names {
	return &Names{prefix: prefix}
}

// Of returns the prefixed name for a base table name
func (n *Names) Of(base string) string {
	return n.prefix + base
}

// All returns every prefixed table name
func (n *Names) All() []string {
	names := make([]string, 0, len(OrderedBases)+len(RecordBases))
	for _, base := range OrderedBases {
		names = append(names, n.Of(base))
	}
	for _, base := range RecordBases {
		names = append(names, n.Of(base))
	}
	return names
}

// Ordered maps an ordered entity onto its table.
// Base columns (id, sort_order, created_at, updated_at, deleted_at) are implicit.
type Ordered[T content.Item] struct {
	Collection content.Collection
	Base       string
	Mode       content.RemovalMode
	Columns    []Column
	New        func() T
	// Values returns payload values in Columns order
	Values func(T) []any
	// Targets returns scan destinations in Columns order
	Targets func(T) []any
}

// OrderedBaseColumns are selected before the payload columns
var OrderedBaseColumns = []string{"id", "sort_order", "created_at", "updated_at", "deleted_at"}

// SelectList returns the full column list for SELECT/RETURNING
func (o Ordered[T]) SelectList() string {
	return strings.Join(append(append([]string{}, OrderedBaseColumns...), columnNames(o.Columns)...), ", ")
}

// PayloadNames returns the payload column names
func (o Ordered[T]) PayloadNames() []string { return columnNames(o.Columns) }

// ScanTargets returns destinations for a row selected with SelectList
func (o Ordered[T]) ScanTargets(item T) []any {
	b := item.Base()
	return append([]any{&b.ID, &b.Order, &b.CreatedAt, &b.UpdatedAt, &b.DeletedAt}, o.Targets(item)...)
}

// Record maps a soft-deletable entity onto its table.
// Base columns (id, is_deleted, is_active, deleted_at, created_at, updated_at) are implicit.
type Record[T records.Record] struct {
	Kind          records.Kind
	Base          string
	HasActiveFlag bool
	Columns       []Column
	New           func() T
	Values        func(T) []any
	Targets       func(T) []any
}

// RecordBaseColumns are selected before the payload columns
var RecordBaseColumns = []string{"id", "is_deleted", "is_active", "deleted_at", "created_at", "updated_at"}

// SelectList returns the full column list for SELECT/RETURNING
func (r Record[T]) SelectList() string {
	return strings.Join(append(append([]string{}, RecordBaseColumns...), columnNames(r.Columns)...), ", ")
}

// PayloadNames returns the payload column names
func (r Record[T]) PayloadNames() []string { return columnNames(r.Columns) }

// ScanTargets returns destinations for a row selected with SelectList
func (r Record[T]) ScanTargets(record T) []any {
	b := record.Base()
	return append([]any{&b.ID, &b.IsDeleted, &b.IsActive, &b.DeletedAt, &b.CreatedAt, &b.UpdatedAt}, r.Targets(record)...)
}

func columnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// Placeholders renders n placeholders starting at position start using format,
// e.g. Placeholders("$%d", 3, 2) = "$3, $4"
func Placeholders(format string, start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		if strings.Contains(format, "%d") {
			parts[i] = fmt.Sprintf(format, start+i)
		} else {
			parts[i] = format
		}
	}
	return strings.Join(parts, ", ")
}

// Assignments renders "col = placeholder" pairs for UPDATE statements
func Assignments(names []string, format string, start int) string {
	parts := make([]string, len(names))
	for i, name := range names {
		ph := format
		if strings.Contains(format, "%d") {
			ph = fmt.Sprintf(format, start+i)
		}
		parts[i] = name + " = " + ph
	}
	return strings.Join(parts, ", ")
}
