package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates authorization failure
	ForbiddenError struct {
		Message string
	}

	// InvariantViolationError indicates a request that would break a collection
	// or lifecycle invariant (activating a deleted record, partial reorder list)
	InvariantViolationError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string           { return e.Message }
func (e *ValidationError) Error() string         { return e.Message }
func (e *UnauthorizedError) Error() string       { return e.Message }
func (e *ForbiddenError) Error() string          { return e.Message }
func (e *InvariantViolationError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int           { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int         { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int       { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int          { return http.StatusForbidden }
func (e *InvariantViolationError) StatusCode() int { return http.StatusConflict }

// Is lets errors.Is match the typed errors against their sentinels
func (e *NotFoundError) Is(target error) bool           { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool         { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool       { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool          { return target == ErrForbidden }
func (e *InvariantViolationError) Is(target error) bool { return target == ErrInvariantViolation }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvariantViolation = errors.New("invariant violation")
	ErrPersistence        = errors.New("persistence failure")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (faqs, testimonials, ...)
	ResourceID   string // ID or version tag of the conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// PersistenceError wraps a storage or transaction failure.
// The whole operation is safe to retry: writes are transactional.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) StatusCode() int { return http.StatusInternalServerError }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// NewNotFound builds a NotFoundError for a resource id
func NewNotFound(resource, id string) error {
	return &NotFoundError{Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// NewValidation builds a ValidationError from a formatted message
func NewValidation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NewInvariantViolation builds an InvariantViolationError from a formatted message
func NewInvariantViolation(format string, args ...any) error {
	return &InvariantViolationError{Message: fmt.Sprintf(format, args...)}
}

// WrapPersistence marks err as a storage failure unless it already carries
// a domain classification. Returns nil for a nil error.
func WrapPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != KindPersistence {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
