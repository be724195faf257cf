// Package apperr defines the error taxonomy shared across the catalog core.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks lookups for an unknown identity.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists marks creates that collide with an existing identity.
	ErrAlreadyExists = errors.New("already exists")
	// ErrConflict marks referential-integrity violations (category with
	// members, duplicate codex alias across entries).
	ErrConflict = errors.New("conflict")
	// ErrValidation marks malformed front matter, missing required fields,
	// and rejected input. The offending write is never performed.
	ErrValidation = errors.New("validation failed")
)

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a formatted detail message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
