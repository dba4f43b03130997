package records

import (
	"context"
	"fmt"
	"strings"

	"clearview/internal/domain"
	models "clearview/internal/domain/models/records"
	recordsRepo "clearview/internal/domain/repositories/records"
	"clearview/internal/repository/postgres"
	"clearview/internal/repository/tables"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresLifecycleRepository implements LifecycleRepository for any record table
type PostgresLifecycleRepository[T models.Record] struct {
	pool  *pgxpool.Pool
	table string
	def   tables.Record[T]
}

// NewLifecycleRepository creates a repository for one record kind
func NewLifecycleRepository[T models.Record](config *postgres.RepositoryConfig, def tables.Record[T]) recordsRepo.LifecycleRepository[T] {
	return &PostgresLifecycleRepository[T]{
		pool:  config.Pool,
		table: config.Tables.Of(def.Base),
		def:   def,
	}
}

func (r *PostgresLifecycleRepository[T]) Kind() models.Kind   { return r.def.Kind }
func (r *PostgresLifecycleRepository[T]) New() T              { return r.def.New() }
func (r *PostgresLifecycleRepository[T]) HasActiveFlag() bool { return r.def.HasActiveFlag }

// GetByID retrieves a record regardless of lifecycle state
func (r *PostgresLifecycleRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate reads the record with a row lock; outside a transaction the
// lock is released as soon as the statement ends
func (r *PostgresLifecycleRepository[T]) GetForUpdate(ctx context.Context, id string) (T, error) {
	return r.get(ctx, id, " FOR UPDATE")
}

func (r *PostgresLifecycleRepository[T]) get(ctx context.Context, id, lock string) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1%s`, r.def.SelectList(), r.table, lock)

	record := r.def.New()
	executor := postgres.GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, id).Scan(r.def.ScanTargets(record)...); err != nil {
		var zero T
		if postgres.IsPgNoRowsError(err) {
			return zero, domain.NewNotFound(string(r.def.Kind), id)
		}
		return zero, fmt.Errorf("get %s: %w", r.def.Kind, err)
	}
	return record, nil
}

// List returns records matching filter, newest first
func (r *PostgresLifecycleRepository[T]) List(ctx context.Context, filter recordsRepo.ListFilter) ([]T, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		%s
		ORDER BY created_at DESC
	`, r.def.SelectList(), r.table, tables.LifecycleWhere(filter))

	executor := postgres.GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.def.Kind, err)
	}
	defer rows.Close()

	list := make([]T, 0)
	for rows.Next() {
		record := r.def.New()
		if err := rows.Scan(r.def.ScanTargets(record)...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.def.Kind, err)
		}
		list = append(list, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", r.def.Kind, err)
	}
	return list, nil
}

// Create inserts a record whose ID and lifecycle fields are already set
func (r *PostgresLifecycleRepository[T]) Create(ctx context.Context, record T) error {
	cols := r.def.PayloadNames()
	query := fmt.Sprintf(`
		INSERT INTO %s (id, is_deleted, is_active, deleted_at, created_at, updated_at, %s)
		VALUES ($1, $2, $3, $4, $5, $6, %s)
	`, r.table, strings.Join(cols, ", "), tables.Placeholders("$%d", 7, len(cols)))

	b := record.Base()
	args := append([]any{b.ID, b.IsDeleted, b.IsActive, b.DeletedAt, b.CreatedAt, b.UpdatedAt}, r.def.Values(record)...)

	executor := postgres.GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, args...); err != nil {
		if postgres.IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("%s record already exists", r.def.Kind),
				ResourceType: string(r.def.Kind),
				ResourceID:   b.ID,
			}
		}
		return fmt.Errorf("create %s: %w", r.def.Kind, err)
	}
	return nil
}

// SaveLifecycle writes all lifecycle fields in a single UPDATE
func (r *PostgresLifecycleRepository[T]) SaveLifecycle(ctx context.Context, base *models.SoftDelete) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = $2, is_active = $3, deleted_at = $4, updated_at = $5
		WHERE id = $1
	`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, base.ID, base.IsDeleted, base.IsActive, base.DeletedAt, base.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save %s lifecycle: %w", r.def.Kind, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(string(r.def.Kind), base.ID)
	}
	return nil
}

// Delete physically removes a record
func (r *PostgresLifecycleRepository[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)

	executor := postgres.GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.def.Kind, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NewNotFound(string(r.def.Kind), id)
	}
	return nil
}
