package records

import (
	"context"

	"clearview/internal/domain/models/records"
)

// StateFilter selects records by lifecycle state
type StateFilter string

const (
	FilterActive  StateFilter = "active"  // not deleted (active or inactive)
	FilterDeleted StateFilter = "deleted" // soft-deleted only
	FilterAll     StateFilter = "all"
)

// ListFilter narrows a record listing
type ListFilter struct {
	State StateFilter
	// PublicOnly further restricts to records a public page may show:
	// not deleted and active
	PublicOnly bool
}

// LifecycleRepository defines data access for one soft-deletable record kind
type LifecycleRepository[T records.Record] interface {
	// Kind returns the record kind this repository serves
	Kind() records.Kind

	// HasActiveFlag reports whether is_active carries meaning for this kind
	HasActiveFlag() bool

	// New returns an empty record ready to be filled by a decoder
	New() T

	// GetByID returns a record in any state, or domain.ErrNotFound
	GetByID(ctx context.Context, id string) (T, error)

	// GetForUpdate returns a record and holds it against concurrent writers
	// until the surrounding transaction ends
	GetForUpdate(ctx context.Context, id string) (T, error)

	// List returns records matching filter, newest first
	List(ctx context.Context, filter ListFilter) ([]T, error)

	// Create inserts a new record
	Create(ctx context.Context, record T) error

	// SaveLifecycle writes is_deleted, is_active, deleted_at and updated_at in one statement
	SaveLifecycle(ctx context.Context, base *records.SoftDelete) error

	// Delete physically removes a record
	Delete(ctx context.Context, id string) error
}
