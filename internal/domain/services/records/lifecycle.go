package records

import (
	"context"

	"clearview/internal/domain/models/records"
	recordsRepo "clearview/internal/domain/repositories/records"
)

// RecordSet defines the soft-delete lifecycle of one record kind
type RecordSet interface {
	Kind() records.Kind

	// HasActiveFlag reports whether SetActive is meaningful for this kind
	HasActiveFlag() bool

	// New returns an empty record of the kind's entity type for decoding
	New() records.Record

	Create(ctx context.Context, record records.Record) (records.Record, error)
	Get(ctx context.Context, id string) (records.Record, error)
	List(ctx context.Context, filter recordsRepo.ListFilter) ([]records.Record, error)

	// SoftDelete hides a record without losing it
	SoftDelete(ctx context.Context, id string) (records.Record, error)

	// Restore undoes SoftDelete
	Restore(ctx context.Context, id string) (records.Record, error)

	// PermanentDelete removes the record for good
	PermanentDelete(ctx context.Context, id string) error

	// SetActive publishes or unpublishes a record
	SetActive(ctx context.Context, id string, active bool) (records.Record, error)
}
