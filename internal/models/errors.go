package models

import (
	"errors"
	"fmt"
)

// AppError is a custom application error carrying a stable code alongside
// a user-presentable message. Handlers translate codes into flash
// messages, inline form errors, not-found pages, or the opaque 500 body.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors.

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
	}
}

// NewDuplicateError reports a uniqueness violation, e.g. a signup with an
// email or username that is already registered.
func NewDuplicateError(message string) *AppError {
	return &AppError{
		Code:    "DUPLICATE",
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "Internal server error",
		Err:     err,
	}
}

// IsNotFound reports whether err is an AppError with the NOT_FOUND code.
func IsNotFound(err error) bool {
	return hasCode(err, "NOT_FOUND")
}

// IsDuplicate reports whether err is an AppError with the DUPLICATE code.
func IsDuplicate(err error) bool {
	return hasCode(err, "DUPLICATE")
}

func hasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
