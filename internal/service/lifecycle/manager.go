// Package lifecycle moves soft-deletable records between active, inactive
// and deleted while keeping is_deleted, is_active and deleted_at consistent.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clearview/internal/domain"
	"clearview/internal/domain/models"
	"clearview/internal/domain/models/records"
	"clearview/internal/domain/repositories"
	recordsRepo "clearview/internal/domain/repositories/records"
	"clearview/internal/domain/services"
	recordsSvc "clearview/internal/domain/services/records"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Policy tunes the transitions that are a business choice rather than a rule
type Policy struct {
	// ReactivateOnRestore sets is_active on restore; by default it is left as it was
	ReactivateOnRestore bool
	// PurgeRequiresSoftDelete refuses PermanentDelete on records that are not deleted
	PurgeRequiresSoftDelete bool
}

// Manager implements RecordSet for one entity type
type Manager[T records.Record] struct {
	repo        recordsRepo.LifecycleRepository[T]
	txManager   repositories.TransactionManager
	policy      Policy
	revalidator services.Revalidator
	logger      *slog.Logger
}

// NewManager creates a manager. revalidator may be nil.
func NewManager[T records.Record](
	repo recordsRepo.LifecycleRepository[T],
	txManager repositories.TransactionManager,
	policy Policy,
	revalidator services.Revalidator,
	logger *slog.Logger,
) *Manager[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager[T]{
		repo:        repo,
		txManager:   txManager,
		policy:      policy,
		revalidator: revalidator,
		logger:      logger.With("kind", string(repo.Kind())),
	}
}

func (m *Manager[T]) Kind() records.Kind  { return m.repo.Kind() }
func (m *Manager[T]) HasActiveFlag() bool { return m.repo.HasActiveFlag() }
func (m *Manager[T]) New() records.Record { return m.repo.New() }

// Create stores a new record in the active state
func (m *Manager[T]) Create(ctx context.Context, record records.Record) (records.Record, error) {
	typed, ok := record.(T)
	if !ok || models.IsNil(record) {
		return nil, domain.NewValidation("payload is not a %s record", m.Kind())
	}
	typed.Normalize()
	if err := typed.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	defer m.revalidate()

	now := timestamp()
	b := typed.Base()
	*b = records.SoftDelete{
		ID:        uuid.NewString(),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var created T
	err := m.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := m.repo.Create(txCtx, typed); err != nil {
			return err
		}
		var err error
		created, err = m.repo.GetByID(txCtx, b.ID)
		return err
	})
	if err != nil {
		return nil, m.fail("create", err)
	}

	m.logger.Info("record created", "id", b.ID)
	return created, nil
}

// Get returns a record in any state
func (m *Manager[T]) Get(ctx context.Context, id string) (records.Record, error) {
	record, err := m.repo.GetByID(ctx, id)
	if err != nil {
		return nil, m.fail("get", err)
	}
	return record, nil
}

// List returns records matching filter, newest first. An empty state means active.
func (m *Manager[T]) List(ctx context.Context, filter recordsRepo.ListFilter) ([]records.Record, error) {
	if filter.State == "" {
		filter.State = recordsRepo.FilterActive
	}
	err := validation.Validate(filter.State,
		validation.In(recordsRepo.FilterActive, recordsRepo.FilterDeleted, recordsRepo.FilterAll))
	if err != nil {
		return nil, fmt.Errorf("%w: state: %v", domain.ErrValidation, err)
	}

	list, err := m.repo.List(ctx, filter)
	if err != nil {
		return nil, m.fail("list", err)
	}
	out := make([]records.Record, len(list))
	for i, r := range list {
		out[i] = r
	}
	return out, nil
}

// SoftDelete marks a record deleted and inactive in a single write
func (m *Manager[T]) SoftDelete(ctx context.Context, id string) (records.Record, error) {
	return m.transition(ctx, "soft delete", id, func(b *records.SoftDelete) (bool, error) {
		if b.IsDeleted {
			return false, domain.NewInvariantViolation("%s %s is already deleted", m.Kind(), id)
		}
		b.MarkDeleted(timestamp())
		return true, nil
	})
}

// Restore clears the deletion. is_active is only set when the policy says so.
func (m *Manager[T]) Restore(ctx context.Context, id string) (records.Record, error) {
	return m.transition(ctx, "restore", id, func(b *records.SoftDelete) (bool, error) {
		if !b.IsDeleted {
			return false, domain.NewInvariantViolation("%s %s is not deleted", m.Kind(), id)
		}
		b.MarkRestored(timestamp(), m.policy.ReactivateOnRestore && m.HasActiveFlag())
		return true, nil
	})
}

// SetActive publishes or unpublishes a record. Activating a deleted record is
// refused; deactivating one is a no-op since it is already inactive.
func (m *Manager[T]) SetActive(ctx context.Context, id string, active bool) (records.Record, error) {
	if !m.HasActiveFlag() {
		return nil, domain.NewValidation("%s records have no active flag", m.Kind())
	}
	return m.transition(ctx, "set active", id, func(b *records.SoftDelete) (bool, error) {
		if b.IsDeleted {
			if active {
				return false, domain.NewInvariantViolation("%s %s is deleted and cannot be activated, restore it first", m.Kind(), id)
			}
			return false, nil
		}
		if b.IsActive == active {
			return false, nil
		}
		b.IsActive = active
		b.UpdatedAt = timestamp()
		return true, nil
	})
}

// PermanentDelete physically removes a record
func (m *Manager[T]) PermanentDelete(ctx context.Context, id string) error {
	defer m.revalidate()

	err := m.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		record, err := m.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if m.policy.PurgeRequiresSoftDelete && !record.Base().IsDeleted {
			return domain.NewInvariantViolation("%s %s must be deleted before it can be purged", m.Kind(), id)
		}
		return m.repo.Delete(txCtx, id)
	})
	if err != nil {
		return m.fail("permanent delete", err)
	}

	m.logger.Info("record permanently deleted", "id", id)
	return nil
}

// transition runs a locking read, check, write and re-read in one transaction.
// apply reports whether it changed anything; unchanged records are not written.
func (m *Manager[T]) transition(ctx context.Context, op, id string, apply func(*records.SoftDelete) (bool, error)) (records.Record, error) {
	defer m.revalidate()

	var result T
	changed := false
	err := m.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		record, err := m.repo.GetForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		b := record.Base()
		if changed, err = apply(b); err != nil {
			return err
		}
		if !changed {
			result = record
			return nil
		}
		if err := b.CheckInvariants(); err != nil {
			return err
		}
		if err := m.repo.SaveLifecycle(txCtx, b); err != nil {
			return err
		}
		result, err = m.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, m.fail(op, err)
	}

	if changed {
		m.logger.Info("record lifecycle changed", "op", op, "id", id, "state", string(result.Base().State()))
	}
	return result, nil
}

func (m *Manager[T]) revalidate() {
	if m.revalidator != nil {
		m.revalidator.Revalidate(string(m.Kind()))
	}
}

func (m *Manager[T]) fail(op string, err error) error {
	err = domain.WrapPersistence(op+" "+string(m.Kind()), err)
	if domain.KindOf(err) == domain.KindPersistence {
		m.logger.Error("record operation failed", "op", op, "error", err)
	}
	return err
}

func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

var _ recordsSvc.RecordSet = (*Manager[*records.Testimonial])(nil)
