// Package ordering keeps each content collection in a gap-free 0..n-1 order
// across append, reorder, remove and restore.
package ordering

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"clearview/internal/config"
	"clearview/internal/domain"
	"clearview/internal/domain/models"
	"clearview/internal/domain/models/content"
	"clearview/internal/domain/repositories"
	contentRepo "clearview/internal/domain/repositories/content"
	"clearview/internal/domain/services"
	contentSvc "clearview/internal/domain/services/content"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Manager implements OrderedCollection for one entity type
type Manager[T content.Item] struct {
	repo        contentRepo.OrderedRepository[T]
	txManager   repositories.TransactionManager
	revalidator services.Revalidator
	logger      *slog.Logger
	maxItems    int
}

// Option adjusts a Manager
type Option func(*managerOptions)

type managerOptions struct {
	maxItems int
}

// WithMaxItems caps the live items of the collection. A collection at the
// cap refuses append and restore, so a full reorder list always fits.
func WithMaxItems(n int) Option {
	return func(o *managerOptions) {
		if n > 0 {
			o.maxItems = n
		}
	}
}

// NewManager creates a manager. revalidator may be nil.
func NewManager[T content.Item](
	repo contentRepo.OrderedRepository[T],
	txManager repositories.TransactionManager,
	revalidator services.Revalidator,
	logger *slog.Logger,
	opts ...Option,
) *Manager[T] {
	if logger == nil {
		logger = slog.Default()
	}
	o := managerOptions{maxItems: config.MaxCollectionItems}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[T]{
		repo:        repo,
		txManager:   txManager,
		revalidator: revalidator,
		logger:      logger.With("collection", string(repo.Collection())),
		maxItems:    o.maxItems,
	}
}

func (m *Manager[T]) Collection() content.Collection { return m.repo.Collection() }
func (m *Manager[T]) Mode() content.RemovalMode      { return m.repo.Mode() }
func (m *Manager[T]) New() content.Item              { return m.repo.New() }

// List returns live items in display order
func (m *Manager[T]) List(ctx context.Context) ([]content.Item, error) {
	items, err := m.repo.List(ctx)
	if err != nil {
		return nil, m.fail("list", err)
	}
	return erase(items), nil
}

// ListDeleted returns soft-removed items
func (m *Manager[T]) ListDeleted(ctx context.Context) ([]content.Item, error) {
	items, err := m.repo.ListDeleted(ctx)
	if err != nil {
		return nil, m.fail("list deleted", err)
	}
	return erase(items), nil
}

// Append inserts item after the current last item. No existing row is modified.
func (m *Manager[T]) Append(ctx context.Context, item content.Item) (content.Item, error) {
	typed, err := m.prepare(item)
	if err != nil {
		return nil, err
	}
	defer m.revalidate()

	now := timestamp()
	b := typed.Base()
	b.ID = uuid.NewString()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.DeletedAt = nil

	var created T
	err = m.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := m.repo.Lock(txCtx); err != nil {
			return err
		}
		maxOrder, err := m.repo.MaxOrder(txCtx)
		if err != nil {
			return err
		}
		if err := m.checkRoom(maxOrder); err != nil {
			return err
		}
		b.Order = maxOrder + 1
		if err := m.repo.Create(txCtx, typed); err != nil {
			return err
		}
		created, err = m.repo.GetByID(txCtx, b.ID)
		return err
	})
	if err != nil {
		return nil, m.fail("append", err)
	}

	m.logger.Info("item appended", "id", b.ID, "order", b.Order)
	return created, nil
}

// Update replaces the payload of a live item; position and timestamps other
// than updated_at are preserved
func (m *Manager[T]) Update(ctx context.Context, id string, item content.Item) (content.Item, error) {
	typed, err := m.prepare(item)
	if err != nil {
		return nil, err
	}
	defer m.revalidate()

	var updated T
	err = m.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		existing, err := m.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if existing.Base().IsDeleted() {
			return domain.NewInvariantViolation("%s item %s is removed and cannot be edited", m.Collection(), id)
		}

		*typed.Base() = *existing.Base()
		typed.Base().UpdatedAt = timestamp()
		if err := m.repo.UpdatePayload(txCtx, typed); err != nil {
			return err
		}
		updated, err = m.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, m.fail("update", err)
	}

	m.logger.Info("item updated", "id", id)
	return updated, nil
}

// Reorder makes req.IDs the new arrangement: the item at index i gets order i.
// The list must name every live item exactly once.
func (m *Manager[T]) Reorder(ctx context.Context, req *contentSvc.ReorderRequest) ([]content.Item, error) {
	if err := validateReorder(req, m.maxItems); err != nil {
		return nil, err
	}
	defer m.revalidate()

	var result []T
	var moved int
	err := m.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		moved = 0
		if err := m.repo.Lock(txCtx); err != nil {
			return err
		}
		current, err := m.repo.List(txCtx)
		if err != nil {
			return err
		}

		if req.ETag != "" {
			if tag := content.ETag(current); tag != req.ETag {
				return &domain.ConflictError{
					Message:      fmt.Sprintf("%s changed since it was read, reload and retry", m.Collection()),
					ResourceType: string(m.Collection()),
					ResourceID:   tag,
				}
			}
		}

		positions := make(map[string]int, len(current))
		for _, item := range current {
			positions[item.Base().ID] = item.Base().Order
		}
		for _, id := range req.IDs {
			if _, ok := positions[id]; !ok {
				return domain.NewNotFound(string(m.Collection()), id)
			}
		}
		if len(req.IDs) != len(current) {
			return domain.NewInvariantViolation(
				"reorder must list all %d %s items, got %d", len(current), m.Collection(), len(req.IDs))
		}

		now := timestamp()
		for i, id := range req.IDs {
			if positions[id] == i {
				continue
			}
			if err := m.repo.SetOrder(txCtx, id, i, now); err != nil {
				return err
			}
			moved++
		}

		result, err = m.repo.List(txCtx)
		return err
	})
	if err != nil {
		return nil, m.fail("reorder", err)
	}

	m.logger.Info("collection reordered", "items", len(req.IDs), "moved", moved)
	return erase(result), nil
}

// Remove takes id out of the ordering, hard or soft depending on the
// collection, and shifts every later item down by one
func (m *Manager[T]) Remove(ctx context.Context, id string) ([]content.Item, error) {
	defer m.revalidate()

	var result []T
	err := m.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := m.repo.Lock(txCtx); err != nil {
			return err
		}
		item, err := m.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if item.Base().IsDeleted() {
			return domain.NewInvariantViolation("%s item %s is already removed", m.Collection(), id)
		}

		now := timestamp()
		if m.Mode() == content.RemoveSoft {
			err = m.repo.SetDeletedAt(txCtx, id, &now, now)
		} else {
			err = m.repo.Delete(txCtx, id)
		}
		if err != nil {
			return err
		}

		result, err = m.renumber(txCtx, now)
		return err
	})
	if err != nil {
		return nil, m.fail("remove", err)
	}

	m.logger.Info("item removed", "id", id, "mode", m.Mode().String(), "remaining", len(result))
	return erase(result), nil
}

// Restore brings a soft-removed item back as the last item
func (m *Manager[T]) Restore(ctx context.Context, id string) ([]content.Item, error) {
	if m.Mode() != content.RemoveSoft {
		return nil, domain.NewValidation("%s items are deleted permanently and cannot be restored", m.Collection())
	}
	defer m.revalidate()

	var result []T
	var order int
	err := m.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := m.repo.Lock(txCtx); err != nil {
			return err
		}
		item, err := m.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !item.Base().IsDeleted() {
			return domain.NewInvariantViolation("%s item %s is not removed", m.Collection(), id)
		}

		maxOrder, err := m.repo.MaxOrder(txCtx)
		if err != nil {
			return err
		}
		if err := m.checkRoom(maxOrder); err != nil {
			return err
		}
		order = maxOrder + 1

		now := timestamp()
		if err := m.repo.SetDeletedAt(txCtx, id, nil, now); err != nil {
			return err
		}
		if err := m.repo.SetOrder(txCtx, id, order, now); err != nil {
			return err
		}

		result, err = m.repo.List(txCtx)
		return err
	})
	if err != nil {
		return nil, m.fail("restore", err)
	}

	m.logger.Info("item restored", "id", id, "order", order)
	return erase(result), nil
}

// checkRoom refuses to grow a collection whose live orders run 0..maxOrder
// past the item cap
func (m *Manager[T]) checkRoom(maxOrder int) error {
	if maxOrder+1 >= m.maxItems {
		return domain.NewValidation("%s already holds the maximum of %d items", m.Collection(), m.maxItems)
	}
	return nil
}

// renumber closes gaps left by a removal, keeping relative order
func (m *Manager[T]) renumber(ctx context.Context, now time.Time) ([]T, error) {
	items, err := m.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		b := item.Base()
		if b.Order == i {
			continue
		}
		if err := m.repo.SetOrder(ctx, b.ID, i, now); err != nil {
			return nil, err
		}
		b.Order = i
		b.UpdatedAt = now
	}
	return items, nil
}

// prepare checks the dynamic type, then normalizes and validates the payload
func (m *Manager[T]) prepare(item content.Item) (T, error) {
	typed, ok := item.(T)
	if !ok || models.IsNil(item) {
		var zero T
		return zero, domain.NewValidation("payload is not a %s item", m.Collection())
	}
	typed.Normalize()
	if err := typed.Validate(); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return typed, nil
}

func (m *Manager[T]) revalidate() {
	if m.revalidator != nil {
		m.revalidator.Revalidate(string(m.Collection()))
	}
}

func (m *Manager[T]) fail(op string, err error) error {
	err = domain.WrapPersistence(op+" "+string(m.Collection()), err)
	if domain.KindOf(err) == domain.KindPersistence {
		m.logger.Error("collection operation failed", "op", op, "error", err)
	}
	return err
}

func validateReorder(req *contentSvc.ReorderRequest, maxItems int) error {
	if req == nil {
		return domain.NewValidation("reorder request is required")
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.IDs,
			validation.Required.Error("must list at least one id"),
			validation.Length(0, maxItems),
			validation.Each(validation.Required),
		),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	seen := make(map[string]struct{}, len(req.IDs))
	for _, id := range req.IDs {
		if _, dup := seen[id]; dup {
			return domain.NewValidation("id %s appears more than once", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func erase[T content.Item](items []T) []content.Item {
	out := make([]content.Item, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// timestamp returns the current time at the precision both stores keep
func timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

var _ contentSvc.OrderedCollection = (*Manager[*content.FAQ])(nil)
