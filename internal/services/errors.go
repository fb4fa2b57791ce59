// Package services holds the tracker's application state and the operations
// that read and mutate it. This file centralizes service-level errors so that
// they can be returned consistently by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrMedicationNotFound indicates that no medication has the given id.
	// Mutations that report it have not changed any state.
	ErrMedicationNotFound = errors.New("medication not found")

	// ErrValidation is the sentinel wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrPersistence is wrapped when the in-memory state changed but mirroring
	// it to the store failed. The in-memory state stays authoritative.
	ErrPersistence = errors.New("persisting state failed")
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
