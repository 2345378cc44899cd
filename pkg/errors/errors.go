package errors

import (
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeValidation indicates malformed caller input (bad flags, empty text)
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeNotFound indicates a resource (lexicon file, transcript file) was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeUnavailable indicates a required collaborator (model endpoint) is not configured or reachable
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"

	// ErrorTypeExternal indicates an error returned by an external service
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeInternal indicates an internal error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
		Err:     err,
	}
}

// NewUnavailableError creates a new collaborator-unavailable error
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}
