package domain

import (
	"context"
	"errors"
	"net/http"
)

// ErrorKind is the discriminator callers switch on instead of inspecting raw errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindInvariantViolation ErrorKind = "invariant_violation"
	KindConflict           ErrorKind = "conflict"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindForbidden          ErrorKind = "forbidden"
	KindPersistence        ErrorKind = "persistence"
)

// KindOf classifies an error. Anything unrecognised is a persistence failure.
func KindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvariantViolation):
		return KindInvariantViolation
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUnauthorized):
		return KindUnauthorized
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	default:
		return KindPersistence
	}
}

// Status maps an error kind to its HTTP status code
func (k ErrorKind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInvariantViolation, KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether repeating the whole operation may succeed
func (k ErrorKind) Retryable() bool {
	return k == KindPersistence
}

// Failure is the error half of a Result
type Failure struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// Result is the discriminated outcome returned across the core/caller boundary.
// Exactly one of Data (Success=true) or Error (Success=false) is meaningful.
type Result[T any] struct {
	Success bool     `json:"success"`
	Data    T        `json:"data"`
	Error   *Failure `json:"error,omitempty"`
}

// Capture converts a (value, error) pair into a Result.
// Persistence failures get a generic message; the detail stays in logs.
func Capture[T any](data T, err error) Result[T] {
	if err == nil {
		return Result[T]{Success: true, Data: data}
	}
	return Result[T]{Error: FailureOf(err)}
}

// FailureOf builds the client-facing failure for err
func FailureOf(err error) *Failure {
	kind := KindOf(err)
	msg := err.Error()
	switch kind {
	case KindPersistence:
		msg = "the change could not be saved, please retry"
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			msg = "the request was cancelled before it completed"
		}
	case KindUnauthorized:
		msg = "authentication required"
	case KindForbidden:
		msg = "access denied"
	}
	return &Failure{Kind: kind, Message: msg}
}
