// Package apierror maps domain error kinds to the HTTP error envelope. The
// mapping mirrors the status codes of the original API: expired actions are
// 400, validation failures 422, duplicate participations/votes 409.
package apierror

import (
	"errors"
	"net/http"

	"ballotbox/internal/domain"
)

// ErrorType names an error category on the wire.
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation"
	ErrorTypeAuthentication ErrorType = "authentication"
	ErrorTypeForbidden      ErrorType = "forbidden"
	ErrorTypeNotFound       ErrorType = "not_found"
	ErrorTypeConflict       ErrorType = "conflict"
	ErrorTypeExpired        ErrorType = "expired"
	ErrorTypeInternal       ErrorType = "internal"
)

// AppError is a transport-level error with a status code.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Internal   error     `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return string(e.Type) + ": " + e.Message + " (" + e.Internal.Error() + ")"
	}
	return string(e.Type) + ": " + e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Internal
}

// FromDomain converts a service error into its wire representation. Unknown
// errors become opaque 500s so internals never leak.
func FromDomain(err error) *AppError {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return &AppError{Type: ErrorTypeNotFound, Message: err.Error(), StatusCode: http.StatusNotFound, Internal: err}
	case errors.Is(err, domain.ErrForbidden):
		return &AppError{Type: ErrorTypeForbidden, Message: err.Error(), StatusCode: http.StatusForbidden, Internal: err}
	case errors.Is(err, domain.ErrConflict):
		return &AppError{Type: ErrorTypeConflict, Message: err.Error(), StatusCode: http.StatusConflict, Internal: err}
	case errors.Is(err, domain.ErrExpired):
		return &AppError{Type: ErrorTypeExpired, Message: err.Error(), StatusCode: http.StatusBadRequest, Internal: err}
	case errors.Is(err, domain.ErrValidation):
		return &AppError{Type: ErrorTypeValidation, Message: err.Error(), StatusCode: http.StatusUnprocessableEntity, Internal: err}
	case errors.Is(err, domain.ErrUnauthorized):
		return &AppError{Type: ErrorTypeAuthentication, Message: err.Error(), StatusCode: http.StatusUnauthorized, Internal: err}
	default:
		return &AppError{Type: ErrorTypeInternal, Message: "internal server error", StatusCode: http.StatusInternalServerError, Internal: err}
	}
}

// NewAuthenticationError creates a 401 error for the auth middleware.
func NewAuthenticationError(message string) *AppError {
	return &AppError{Type: ErrorTypeAuthentication, Message: message, StatusCode: http.StatusUnauthorized}
}

// NewValidationError creates a 400 error for malformed request bodies.
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message, StatusCode: http.StatusBadRequest}
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error struct {
		Type      ErrorType `json:"type"`
		Message   string    `json:"message"`
		RequestID string    `json:"request_id,omitempty"`
		Timestamp string    `json:"timestamp"`
	} `json:"error"`
}
