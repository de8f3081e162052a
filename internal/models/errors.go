package models

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeValidation          = "VALIDATION_ERROR"
	CodeConflict            = "CONFLICT"
	CodeForeignKeyViolation = "FOREIGN_KEY_VIOLATION"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternal            = "INTERNAL_ERROR"
)

// AppError represents a custom application error
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

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewConflictError(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: fmt.Sprintf("%s already exists", resource),
		Err:     err,
	}
}

func NewForeignKeyError(resource string, err error) *AppError {
	return &AppError{
		Code:    CodeForeignKeyViolation,
		Message: fmt.Sprintf("%s references a missing or still-referenced row", resource),
		Err:     err,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// ErrorCode returns the AppError code found in err's chain, or "" if there is none.
func ErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
