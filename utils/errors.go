package utils

import (
	"net/http"
	"strings"
)

// AppError is a business-logic failure carrying the HTTP status to surface.
type AppError struct {
	StatusCode int
	Message    string
}

func (e *AppError) Error() string {
	return e.Message
}

// NewAppError creates an error with an explicit status code.
func NewAppError(message string, statusCode int) *AppError {
	return &AppError{StatusCode: statusCode, Message: message}
}

// NewValidationError reports every violated constraint in one message.
func NewValidationError(violations []string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: strings.Join(violations, "; ")}
}

// NewUnauthorized is a missing or invalid session (401).
func NewUnauthorized(message string) *AppError {
	return &AppError{StatusCode: http.StatusUnauthorized, Message: message}
}

// NewForbidden is an authenticated caller with the wrong role or ownership (403).
func NewForbidden(message string) *AppError {
	return &AppError{StatusCode: http.StatusForbidden, Message: message}
}

// NewNotFound is an absent entity (404).
func NewNotFound(message string) *AppError {
	return &AppError{StatusCode: http.StatusNotFound, Message: message}
}

// NewConflict is a duplicate unique field. Surfaced as 400, not 409.
func NewConflict(message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Message: message}
}

// NewInternal is a downstream dependency failure (500).
func NewInternal(message string) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Message: message}
}
