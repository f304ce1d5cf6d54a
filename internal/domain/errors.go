// Package domain defines the core circulation entities and their
// validation rules.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors. Every per-field validation sentinel in this
// package wraps one of these roots, so callers can match the broad
// category (errors.Is(err, ErrValidation)) or the exact field error.
var (
	// ErrValidation is the root of all entity validation failures.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is missing or malformed.
	ErrInvalidID = fmt.Errorf("%w: invalid ID", ErrValidation)

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = fmt.Errorf("%w: invalid email format", ErrValidation)

	// ErrInvalidDate is returned when a date field is missing or
	// outside its allowed range.
	ErrInvalidDate = fmt.Errorf("%w: invalid date", ErrValidation)
)

// ValidationError wraps a domain validation failure with the input
// that caused it, so callers can report which entity or field was bad
// without string matching. The services attach it at their boundary;
// the wrapped per-field sentinel stays reachable through errors.Is.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return "validation failed for " + e.Field + ": " + e.Message
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
