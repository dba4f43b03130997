package content

import (
	"context"
	"time"

	"clearview/internal/domain/models/content"
)

// OrderedRepository defines data access for one ordered collection.
// Every method participates in the transaction carried by ctx, if any.
type OrderedRepository[T content.Item] interface {
	// Collection returns the collection this repository serves
	Collection() content.Collection

	// Mode returns how Remove treats rows of this collection
	Mode() content.RemovalMode

	// New returns an empty item ready to be filled by a decoder
	New() T

	// Lock serializes writers of this collection until the surrounding transaction ends
	Lock(ctx context.Context) error

	// List returns non-deleted items ordered by sort_order ascending
	List(ctx context.Context) ([]T, error)

	// ListDeleted returns soft-removed items, most recently removed first
	ListDeleted(ctx context.Context) ([]T, error)

	// GetByID returns an item in any state, or domain.ErrNotFound
	GetByID(ctx context.Context, id string) (T, error)

	// MaxOrder returns the highest sort_order among non-deleted items, -1 when empty
	MaxOrder(ctx context.Context) (int, error)

	// Create inserts a new item with its ordering fields already assigned
	Create(ctx context.Context, item T) error

	// UpdatePayload writes the payload columns and updated_at
	UpdatePayload(ctx context.Context, item T) error

	// SetOrder moves one item to the given position
	SetOrder(ctx context.Context, id string, order int, updatedAt time.Time) error

	// SetDeletedAt soft-removes (non-nil) or restores (nil) an item
	SetDeletedAt(ctx context.Context, id string, deletedAt *time.Time, updatedAt time.Time) error

	// Delete physically removes an item
	Delete(ctx context.Context, id string) error
}
