package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"clearview/internal/domain"
	"clearview/internal/domain/models/content"
	contentRepo "clearview/internal/domain/repositories/content"
	"clearview/internal/repository/tables"
)

// OrderedRepository implements OrderedRepository over SQLite
type OrderedRepository[T content.Item] struct {
	db    *sql.DB
	table string
	def   tables.Ordered[T]
}

// NewOrderedRepository creates a repository for one ordered collection
func NewOrderedRepository[T content.Item](config *RepositoryConfig, def tables.Ordered[T]) contentRepo.OrderedRepository[T] {
	return &OrderedRepository[T]{
		db:    config.DB,
		table: config.Tables.Of(def.Base),
		def:   def,
	}
}

func (r *OrderedRepository[T]) Collection() content.Collection { return r.def.Collection }
func (r *OrderedRepository[T]) Mode() content.RemovalMode      { return r.def.Mode }
func (r *OrderedRepository[T]) New() T                         { return r.def.New() }

// Lock is a no-op: transactions begin IMMEDIATE and already hold the write lock
func (r *OrderedRepository[T]) Lock(ctx context.Context) error { return nil }

func (r *OrderedRepository[T]) List(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deleted_at IS NULL
		ORDER BY sort_order ASC, created_at ASC`,
		r.def.SelectList(), r.table)
	return r.query(ctx, "list", query)
}

func (r *OrderedRepository[T]) ListDeleted(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deleted_at IS NOT NULL
		ORDER BY deleted_at DESC`,
		r.def.SelectList(), r.table)
	return r.query(ctx, "list deleted", query)
}

func (r *OrderedRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, r.def.SelectList(), r.table)

	item := r.def.New()
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(r.def.ScanTargets(item)...)
	if err != nil {
		var zero T
		if IsNoRowsError(err) {
			return zero, domain.NewNotFound(string(r.def.Collection), id)
		}
		return zero, fmt.Errorf("get %s: %w", r.def.Collection, err)
	}
	return item, nil
}

func (r *OrderedRepository[T]) MaxOrder(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MAX(sort_order), -1) FROM %s WHERE deleted_at IS NULL`, r.table)

	var maxOrder int
	if err := getExecutor(ctx, r.db).QueryRowContext(ctx, query).Scan(&maxOrder); err != nil {
		return 0, fmt.Errorf("max order %s: %w", r.def.Collection, err)
	}
	return maxOrder, nil
}

func (r *OrderedRepository[T]) Create(ctx context.Context, item T) error {
	cols := r.def.PayloadNames()
	query := fmt.Sprintf(`
		INSERT INTO %s (id, sort_order, created_at, updated_at, deleted_at, %s)
		VALUES (?, ?, ?, ?, ?, %s)`,
		r.table, strings.Join(cols, ", "), tables.Placeholders("?", 0, len(cols)))

	b := item.Base()
	args := append([]any{b.ID, b.Order, b.CreatedAt, b.UpdatedAt, b.DeletedAt}, r.def.Values(item)...)

	if _, err := getExecutor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if IsDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%s item already exists", r.def.Collection),
				ResourceType: string(r.def.Collection),
				ResourceID:   b.ID,
			}
		}
		return fmt.Errorf("create %s: %w", r.def.Collection, err)
	}
	return nil
}

func (r *OrderedRepository[T]) UpdatePayload(ctx context.Context, item T) error {
	query := fmt.Sprintf(`UPDATE %s SET %s, updated_at = ? WHERE id = ?`,
		r.table, tables.Assignments(r.def.PayloadNames(), "?", 0))

	b := item.Base()
	args := append(r.def.Values(item), b.UpdatedAt, b.ID)
	return r.exec(ctx, "update", b.ID, query, args...)
}

func (r *OrderedRepository[T]) SetOrder(ctx context.Context, id string, order int, updatedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET sort_order = ?, updated_at = ? WHERE id = ?`, r.table)
	return r.exec(ctx, "set order", id, query, order, updatedAt, id)
}

func (r *OrderedRepository[T]) SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time, updatedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted_at = ?, updated_at = ? WHERE id = ?`, r.table)
	return r.exec(ctx, "set deleted_at", id, query, deletedAt, updatedAt, id)
}

func (r *OrderedRepository[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table)
	return r.exec(ctx, "delete", id, query, id)
}

func (r *OrderedRepository[T]) exec(ctx context.Context, op, id, query string, args ...any) error {
	res, err := getExecutor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, r.def.Collection, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, r.def.Collection, err)
	}
	if n == 0 {
		return domain.NewNotFound(string(r.def.Collection), id)
	}
	return nil
}

func (r *OrderedRepository[T]) query(ctx context.Context, op, query string, args ...any) ([]T, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, r.def.Collection, err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item := r.def.New()
		if err := rows.Scan(r.def.ScanTargets(item)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.def.Collection, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.def.Collection, err)
	}
	return items, nil
}
