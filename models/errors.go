package models

import (
	"errors"
	"fmt"
)

var (
	// ErrRecordNotFound is returned by stores when a lookup matches nothing.
	ErrRecordNotFound = errors.New("record not found")
	// ErrInvalidCredentials is returned when a login does not match the configured account.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotFound is returned for unknown, revoked or expired sessions.
	ErrSessionNotFound = errors.New("session not found")
)

// ValidationError reports malformed or missing input the caller can correct.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// NewValidationError is a shorthand used by services and controllers.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a reference to a record that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrRecordNotFound
}

// AuthError reports a missing session or a credential mismatch.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}
	return "unauthorized: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// ServerError wraps an unexpected store or infrastructure failure.
// Its message is never shown to clients.
type ServerError struct {
	Op  string
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}
