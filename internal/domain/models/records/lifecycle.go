package records

import (
	"fmt"
	"time"

	"clearview/internal/domain"
)

// Kind names a soft-deletable record type
type Kind string

const (
	KindTestimonials Kind = "testimonials"
	KindCustomers    Kind = "customers"
	KindAppointments Kind = "appointments"
)

// Kinds lists every soft-deletable record type
var Kinds = []Kind{KindTestimonials, KindCustomers, KindAppointments}

// ParseKind validates a record kind taken from a URL or CLI argument
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown record kind %q", name)
}

// State is the lifecycle position of a record
type State string

const (
	StateActive      State = "active"   // not deleted, published
	StateInactive    State = "inactive" // not deleted, unpublished
	StateSoftDeleted State = "deleted"
)

// SoftDelete holds the lifecycle fields shared by every record kind.
//
// Invariants:
//   - IsDeleted == (DeletedAt != nil)
//   - IsDeleted implies !IsActive
type SoftDelete struct {
	ID        string     `json:"id" db:"id"`
	IsDeleted bool       `json:"is_deleted" db:"is_deleted"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	DeletedAt *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// Base exposes the shared fields to generic code
func (s *SoftDelete) Base() *SoftDelete { return s }

// State derives the lifecycle state from the flags
func (s *SoftDelete) State() State {
	switch {
	case s.IsDeleted:
		return StateSoftDeleted
	case s.IsActive:
		return StateActive
	default:
		return StateInactive
	}
}

// CheckInvariants reports the first broken cross-field invariant
func (s *SoftDelete) CheckInvariants() error {
	if s.IsDeleted && s.DeletedAt == nil {
		return domain.NewInvariantViolation("record %s is deleted without a deletion time", s.ID)
	}
	if !s.IsDeleted && s.DeletedAt != nil {
		return domain.NewInvariantViolation("record %s has a deletion time but is not deleted", s.ID)
	}
	if s.IsDeleted && s.IsActive {
		return domain.NewInvariantViolation("record %s is both deleted and active", s.ID)
	}
	return nil
}

// MarkDeleted applies the soft-delete transition
func (s *SoftDelete) MarkDeleted(at time.Time) {
	s.IsDeleted = true
	s.IsActive = false
	s.DeletedAt = &at
	s.UpdatedAt = at
}

// MarkRestored clears the deletion. IsActive is left untouched unless reactivate is set.
func (s *SoftDelete) MarkRestored(at time.Time, reactivate bool) {
	s.IsDeleted = false
	s.DeletedAt = nil
	if reactivate {
		s.IsActive = true
	}
	s.UpdatedAt = at
}

// Record is implemented by pointers to every soft-deletable entity
type Record interface {
	Base() *SoftDelete
	Normalize()
	Validate() error
}
