package models

import "errors"

// ErrNotFound is returned when a record with the requested key does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a request the use case refused to act on.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a ValidationError.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
