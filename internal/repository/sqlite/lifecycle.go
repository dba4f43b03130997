package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clearview/internal/domain"
	"clearview/internal/domain/models/records"
	recordsRepo "clearview/internal/domain/repositories/records"
	"clearview/internal/repository/tables"
)

// LifecycleRepository implements LifecycleRepository over SQLite
type LifecycleRepository[T records.Record] struct {
	db    *sql.DB
	table string
	def   tables.Record[T]
}

// NewLifecycleRepository creates a repository for one record kind
func NewLifecycleRepository[T records.Record](config *RepositoryConfig, def tables.Record[T]) recordsRepo.LifecycleRepository[T] {
	return &LifecycleRepository[T]{
		db:    config.DB,
		table: config.Tables.Of(def.Base),
		def:   def,
	}
}

func (r *LifecycleRepository[T]) Kind() records.Kind  { return r.def.Kind }
func (r *LifecycleRepository[T]) New() T              { return r.def.New() }
func (r *LifecycleRepository[T]) HasActiveFlag() bool { return r.def.HasActiveFlag }

func (r *LifecycleRepository[T]) GetByID(ctx context.Context, id string) (T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, r.def.SelectList(), r.table)

	record := r.def.New()
	if err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(r.def.ScanTargets(record)...); err != nil {
		var zero T
		if IsNoRowsError(err) {
			return zero, domain.NewNotFound(string(r.def.Kind), id)
		}
		return zero, fmt.Errorf("get %s: %w", r.def.Kind, err)
	}
	return record, nil
}

// GetForUpdate is a plain read: write transactions begin immediate, so the
// database is already held by the caller
func (r *LifecycleRepository[T]) GetForUpdate(ctx context.Context, id string) (T, error) {
	return r.GetByID(ctx, id)
}

func (r *LifecycleRepository[T]) List(ctx context.Context, filter recordsRepo.ListFilter) ([]T, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		%s
		ORDER BY created_at DESC, id DESC`,
		r.def.SelectList(), r.table, tables.LifecycleWhere(filter))

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query)
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

func (r *LifecycleRepository[T]) Create(ctx context.Context, record T) error {
	cols := r.def.PayloadNames()
	query := fmt.Sprintf(`
		INSERT INTO %s (id, is_deleted, is_active, deleted_at, created_at, updated_at, %s)
		VALUES (?, ?, ?, ?, ?, ?, %s)`,
		r.table, strings.Join(cols, ", "), tables.Placeholders("?", 0, len(cols)))

	b := record.Base()
	args := append([]any{b.ID, b.IsDeleted, b.IsActive, b.DeletedAt, b.CreatedAt, b.UpdatedAt}, r.def.Values(record)...)

	if _, err := getExecutor(ctx, r.db).ExecContext(ctx, query, args...); err != nil {
		if IsDuplicateError(err) {
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

func (r *LifecycleRepository[T]) SaveLifecycle(ctx context.Context, base *records.SoftDelete) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = ?, is_active = ?, deleted_at = ?, updated_at = ?
		WHERE id = ?`, r.table)

	res, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		base.IsDeleted, base.IsActive, base.DeletedAt, base.UpdatedAt, base.ID)
	if err != nil {
		return fmt.Errorf("save %s lifecycle: %w", r.def.Kind, err)
	}
	return r.affected(res, base.ID)
}

func (r *LifecycleRepository[T]) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, r.table)

	res, err := getExecutor(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.def.Kind, err)
	}
	return r.affected(res, id)
}

func (r *LifecycleRepository[T]) affected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected %s: %w", r.def.Kind, err)
	}
	if n == 0 {
		return domain.NewNotFound(string(r.def.Kind), id)
	}
	return nil
}
