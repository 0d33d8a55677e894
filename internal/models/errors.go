package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateAccount is returned when the normalized identifier is already registered
	ErrDuplicateAccount = errors.New("account already exists")
	// ErrInvalidCredentials is returned for both an unknown identifier and a wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports missing or malformed registration fields.
// Message is shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// StorageParseError reports a stored value that could not be decoded.
// Absent keys never produce it.
type StorageParseError struct {
	Key string
	Err error
}

func (e *StorageParseError) Error() string {
	return fmt.Sprintf("corrupt data under key %q: %v", e.Key, e.Err)
}

func (e *StorageParseError) Unwrap() error {
	return e.Err
}

// IsStorageParseError reports whether err wraps a StorageParseError
func IsStorageParseError(err error) bool {
	var parseErr *StorageParseError
	return errors.As(err, &parseErr)
}

// AuthError pairs one of the sentinel errors with the message shown to the user.
// errors.Is matches the sentinel, Error returns the message.
type AuthError struct {
	Kind    error
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Kind
}
