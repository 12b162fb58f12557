package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks lookups of ads, users, categories or locations that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks writes rejected by a uniqueness or reference constraint.
	ErrConflict = errors.New("conflict")
)

// Error carries a human readable message on top of one of the sentinel kinds.
type Error struct {
	Kind     error
	Resource string
	Field    string
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func NotFound(resource string, id int64) *Error {
	return &Error{
		Kind:     ErrNotFound,
		Resource: resource,
		Message:  fmt.Sprintf("%s %d not found", resource, id),
	}
}

func Invalid(field, message string) *Error {
	return &Error{
		Kind:    ErrValidation,
		Field:   field,
		Message: message,
	}
}

func Conflict(resource, message string) *Error {
	return &Error{
		Kind:     ErrConflict,
		Resource: resource,
		Message:  message,
	}
}
