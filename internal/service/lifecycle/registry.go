package lifecycle

import (
	"clearview/internal/domain"
	"clearview/internal/domain/models/records"
	recordsSvc "clearview/internal/domain/services/records"
)

// Registry resolves record kind names to managers
type Registry struct {
	byKind map[records.Kind]recordsSvc.RecordSet
}

// NewRegistry indexes managers by their kind
func NewRegistry(sets ...recordsSvc.RecordSet) *Registry {
	r := &Registry{byKind: make(map[records.Kind]recordsSvc.RecordSet, len(sets))}
	for _, s := range sets {
		r.byKind[s.Kind()] = s
	}
	return r
}

// Get returns the manager for name, or a NotFoundError
func (r *Registry) Get(name string) (recordsSvc.RecordSet, error) {
	kind, err := records.ParseKind(name)
	if err != nil {
		return nil, &domain.NotFoundError{Message: err.Error()}
	}
	s, ok := r.byKind[kind]
	if !ok {
		return nil, domain.NewNotFound("record kind", name)
	}
	return s, nil
}

// All returns managers in declaration order
func (r *Registry) All() []recordsSvc.RecordSet {
	out := make([]recordsSvc.RecordSet, 0, len(r.byKind))
	for _, k := range records.Kinds {
		if s, ok := r.byKind[k]; ok {
			out = append(out, s)
		}
	}
	return out
}
