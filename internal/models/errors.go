package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by store operations referencing an unknown id.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState is returned when a session operation is called outside
	// its valid phase.
	ErrInvalidState = errors.New("invalid state")
	// ErrOutOfRange is returned when advancing past the last question.
	ErrOutOfRange = errors.New("out of range")
)

// ValidationError rejects malformed confirmation-form input with a
// field-level message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
