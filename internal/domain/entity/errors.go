package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidRecord indicates that a character record fetched from upstream
	// carries a malformed birthday and must be dropped at ingestion.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
// Every ValidationError unwraps to ErrInvalidRecord.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Unwrap lets callers match validation failures with errors.Is(err, ErrInvalidRecord).
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRecord
}
