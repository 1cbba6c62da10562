// Package shared provides common domain types used across all domain packages.
package shared

import (
	"errors"
	"fmt"
)

// Common domain errors.
var (
	// Entity errors
	ErrEmptyID       = errors.New("id cannot be empty")
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrEmptyKey      = errors.New("key cannot be empty")
	ErrNameTooLong   = errors.New("name exceeds maximum length")
	ErrAlreadyExists = errors.New("entity already exists")
	ErrInvalidState  = errors.New("entity is in an invalid state for this operation")

	// Authorization errors
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrPermissionDenied = errors.New("permission denied")

	// Not found errors
	ErrNotFound = errors.New("entity not found")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrInvalidToken       = errors.New("token is invalid")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrTokenExpired       = errors.New("token has expired")
)

// ValidationError is a rejected input field. The delivery layer reports
// Field and Message separately.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
