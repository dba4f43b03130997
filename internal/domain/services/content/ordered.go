package content

import (
	"context"

	"clearview/internal/domain/models/content"
)

// ReorderRequest carries the complete desired arrangement of a collection
type ReorderRequest struct {
	IDs []string `json:"ids"`
	// ETag, when set, must match the collection's current ETag
	ETag string `json:"etag,omitempty"`
}

// OrderedCollection defines operations on one ordered collection.
// Items are the concrete entity pointers (*content.FAQ, *content.Service, ...).
type OrderedCollection interface {
	Collection() content.Collection
	Mode() content.RemovalMode

	// New returns an empty item of the collection's entity type for decoding
	New() content.Item

	// List returns non-deleted items in display order
	List(ctx context.Context) ([]content.Item, error)

	// ListDeleted returns soft-removed items; always empty for hard-removal collections
	ListDeleted(ctx context.Context) ([]content.Item, error)

	// Append adds item at the end of the collection
	Append(ctx context.Context, item content.Item) (content.Item, error)

	// Update replaces an item's payload; its position is unchanged
	Update(ctx context.Context, id string, item content.Item) (content.Item, error)

	// Reorder assigns positions 0..n-1 following req.IDs
	Reorder(ctx context.Context, req *ReorderRequest) ([]content.Item, error)

	// Remove takes an item out of the ordering and closes the gap
	Remove(ctx context.Context, id string) ([]content.Item, error)

	// Restore brings a soft-removed item back at the end
	Restore(ctx context.Context, id string) ([]content.Item, error)
}
