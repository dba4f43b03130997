package ordering

import (
	"clearview/internal/domain"
	"clearview/internal/domain/models/content"
	contentSvc "clearview/internal/domain/services/content"
)

// Registry resolves collection names from URLs and CLI arguments to managers
type Registry struct {
	byName map[content.Collection]contentSvc.OrderedCollection
}

// NewRegistry indexes managers by their collection
func NewRegistry(collections ...contentSvc.OrderedCollection) *Registry {
	r := &Registry{byName: make(map[content.Collection]contentSvc.OrderedCollection, len(collections))}
	for _, c := range collections {
		r.byName[c.Collection()] = c
	}
	return r
}

// Get returns the manager for name, or a NotFoundError
func (r *Registry) Get(name string) (contentSvc.OrderedCollection, error) {
	collection, err := content.ParseCollection(name)
	if err != nil {
		return nil, &domain.NotFoundError{Message: err.Error()}
	}
	c, ok := r.byName[collection]
	if !ok {
		return nil, domain.NewNotFound("collection", name)
	}
	return c, nil
}

// All returns managers in menu order
func (r *Registry) All() []contentSvc.OrderedCollection {
	out := make([]contentSvc.OrderedCollection, 0, len(r.byName))
	for _, name := range content.Collections {
		if c, ok := r.byName[name]; ok {
			out = append(out, c)
		}
	}
	return out
}
