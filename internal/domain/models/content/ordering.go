package content

import (
	"fmt"
	"time"
)

// Collection names a group of ordered items sharing one order namespace
type Collection string

const (
	CollectionFAQs          Collection = "faqs"
	CollectionAboutSections Collection = "about-sections"
	CollectionHomeValues    Collection = "home-values"
	CollectionServices      Collection = "services"
)

// Collections lists every ordered collection in display-menu order
var Collections = []Collection{
	CollectionFAQs,
	CollectionAboutSections,
	CollectionHomeValues,
	CollectionServices,
}

// ParseCollection validates a collection name taken from a URL or CLI argument
func ParseCollection(name string) (Collection, error) {
	for _, c := range Collections {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown collection %q", name)
}

// RemovalMode decides what Remove does to the row itself
type RemovalMode int

const (
	// RemoveHard physically deletes the row
	RemoveHard RemovalMode = iota
	// RemoveSoft stamps deleted_at and leaves the row restorable
	RemoveSoft
)

func (m RemovalMode) String() string {
	if m == RemoveSoft {
		return "soft"
	}
	return "hard"
}

// Ordering holds the fields every ordered item shares.
// Order is 0-based and, among non-deleted items of one collection,
// always forms the contiguous range 0..n-1.
type Ordering struct {
	ID        string     `json:"id" db:"id"`
	Order     int        `json:"order" db:"sort_order"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Base exposes the shared fields to generic code
func (o *Ordering) Base() *Ordering { return o }

// IsDeleted reports whether the item was soft-removed
func (o *Ordering) IsDeleted() bool { return o.DeletedAt != nil }

// Item is implemented by pointers to every ordered entity
type Item interface {
	Base() *Ordering
	// Normalize trims user input before validation
	Normalize()
	// Validate checks the domain payload; ordering fields are manager-owned
	Validate() error
}
