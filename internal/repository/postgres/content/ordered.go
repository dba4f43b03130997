package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"clearview/internal/domain"
	models "clearview/internal/domain/models/content"
	contentRepo "clearview/internal/domain/repositories/content"
	"clearview/internal/repository/postgres"
	"clearview/internal/repository/tables"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresOrderedRepository implements OrderedRepository for any table definition
type PostgresOrderedRepository[T models.Item] struct {
	pool  *pgxpool.Pool
	table string
	def   tables.Ordered[T]
}

// NewOrderedRepository creates a repository for one ordered collection
func NewOrderedRepository[T models.Item](config *postgres.RepositoryConfig, def tables.Ordered[T]) contentRepo.OrderedRepository[T] {
	return &PostgresOrderedRepository[T]{
		pool:  config.Pool,
		table: config.Tables.Of(def.Base),
		def:   def,
	}
}

func (r *PostgresOrderedRepository[T]) Collection() models.Collection { return r.def.Collection }
func (r *PostgresOrderedRepository[T]) Mode() models.RemovalMode      { return r.def.Mode }
func (r *PostgresOrderedRepository[T]) New() T                        { return r.def.New() }

// Lock takes a transaction-scoped advisory lock keyed by the table name
func (r *PostgresOrderedRepository[T]) Lock(ctx context.Context) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", r.table); err != nil {
		return fmt.Errorf("lock %s: %w", r.table, err)
	}
	return nil
}

// List returns live items by position
func (r *PostgresOrderedRepository[T]) List(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deleted_at IS NULL
		ORDER BY sort_order ASC, created_at ASC
	`, r.def.SelectList(), r.table)
	return r.query(ctx, "list", query)
}

// ListDeleted returns soft-removed items, most recent first
func (r *PostgresOrderedRepository[T]) ListDeleted(ctx context.Context) ([]T, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE deleted_at IS NOT NULL
		ORDER BY deleted_at DESC
	`, r.def.SelectList(), r.table)
	return r.query(ctx, "list deleted", query)
}

// GetByID retrieves an item regardless of deletion state
func (r *PostgresOrderedRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, r.def.SelectList(), r.table)

	item := r.def.New()
	executor := postgres.GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(r.def.ScanTargets(item)...)
	if err != nil {
		var zero T
		if postgres.IsPgNoRowsError(err) {
			return zero, domain.NewNotFound(string(r.def.Collection), id)
		}
		return zero, fmt.Errorf("get %s: %w", r.def.Collection, err)
	}
	return item, nil
}

// MaxOrder returns the highest live position, -1 when the collection is empty
func (r *PostgresOrderedRepository[T]) MaxOrder(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COALESCE(MAX(sort_order), -1) FROM %s WHERE deleted_at IS NULL`, r.table)

	var maxOrder int
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&maxOrder); err != nil {
		return 0, fmt.Errorf("max order %s: %w", r.def.Collection, err)
	}
	return maxOrder, nil
}

// Create inserts an item whose ID and ordering fields are already set
func (r *PostgresOrderedRepository[T]) Create(ctx context.Context, item T) error {
	cols := r.def.PayloadNames()
	query := fmt.Sprintf(`
		INSERT INTO %s (id, sort_order, created_at, updated_at, deleted_at, %s)
		VALUES ($1, $2, $3, $4, $5, %s)
	`, r.table, strings.Join(cols, ", "), tables.Placeholders("$%d", 6, len(cols)))

	b := item.Base()
	args := append([]any{b.ID, b.Order, b.CreatedAt, b.UpdatedAt, b.DeletedAt}, r.def.Values(item)...)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, args...); err != nil {
		if postgres.IsPgDuplicateError(err) {
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

// UpdatePayload rewrites the payload columns; ordering fields are untouched
func (r *PostgresOrderedRepository[T]) UpdatePayload(ctx context.Context, item T) error {
	cols := r.def.PayloadNames()
	query := fmt.Sprintf(`
		UPDATE %s
		SET updated_at = $2, %s
		WHERE id = $1
	`, r.table, tables.Assignments(cols, "$%d", 3))

	b := item.Base()
	args := append([]any{b.ID, b.UpdatedAt}, r.def.Values(item)...)
	return r.exec(ctx, "update", b.ID, query, args...)
}

// SetOrder moves one item
func (r *PostgresOrderedRepository[T]) SetOrder(ctx context.Context, id string, order int, updatedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET sort_order = $2, updated_at = $3 WHERE id = $1`, r.table)
	return r.exec(ctx, "set order", id, query, id, order, updatedAt)
}

// SetDeletedAt soft-removes or restores an item
func (r *PostgresOrderedRepository[T]) SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time, updatedAt time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted_at = $2, updated_at = $3 WHERE id = $1`, r.table)
	return r.exec(ctx, "set deleted_at", id, query, id, deletedAt, updatedAt)
}

// Delete physically removes an item
func (r *PostgresOrderedRepository[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	return r.exec(ctx, "delete", id, query, id)
}

func (r *PostgresOrderedRepository[T]) exec(ctx context.Context, op, id, query string, args ...any) error {
	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, r.def.Collection, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(string(r.def.Collection), id)
	}
	return nil
}

func (r *PostgresOrderedRepository[T]) query(ctx context.Context, op, query string, args ...any) ([]T, error) {
	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
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
