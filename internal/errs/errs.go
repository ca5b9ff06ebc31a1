// Package errs defines the domain error taxonomy shared by the
// allocator, lifecycle and quotation components. Handlers translate
// these into HTTP status codes; domain code never touches HTTP.
package errs

import (
	"errors"
	"fmt"
)

// ValidationError: input or invariant violation, rejected before any
// persistence. The caller must correct the input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError: a concurrent allocation collision. Recoverable by
// re-querying availability and retrying.
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// NotFoundError: a referenced room, reservation or inquiry is missing.
type NotFoundError struct {
	Kind string
	ID   any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Kind, e.ID)
}

// StateError: an operation attempted from an illegal state. Nothing is
// mutated.
type StateError struct {
	Msg string
}

func (e *StateError) Error() string { return e.Msg }

func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

func NotFound(kind string, id any) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func State(format string, args ...any) error {
	return &StateError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsState(err error) bool {
	var e *StateError
	return errors.As(err, &e)
}
