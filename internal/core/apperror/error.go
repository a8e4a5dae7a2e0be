// Package apperror defines the coded errors returned by services and rendered
// by the HTTP layer as {code, message, details}.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeInternal   = "INTERNAL_ERROR"
	CodeValidation = "VALIDATION_ERROR"

	// Expense entry rules (422). Each failing readiness rule has its own code
	// so the caller can show a specific message.
	CodeEmptyPositions    = "EMPTY_POSITIONS"
	CodeMissingAllocation = "MISSING_ALLOCATION"
	CodeInvalidHeader     = "INVALID_HEADER"
	CodeLastPosition      = "LAST_POSITION"
	CodeObjectArchived    = "OBJECT_ARCHIVED"
	CodeTotalMismatch     = "TOTAL_MISMATCH"

	// Submission errors
	CodeSubmissionInProgress = "SUBMISSION_IN_PROGRESS"
	CodeSubmissionFailed     = "SUBMISSION_FAILED"

	// Authorization errors (401, 403)
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"

	// Not found (404)
	CodeNotFound = "NOT_FOUND"

	// Conflict (409)
	CodeConflict = "CONFLICT"
)

// AppError carries a machine-readable code, a user-facing message and the
// HTTP status the API answers with.
type AppError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	// Details holds context such as the offending field or line number.
	Details    map[string]any `json:"details,omitempty"`
	HTTPStatus int            `json:"-"`
	// Err is logged, never rendered.
	Err error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Code + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds a key-value pair to error details
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Err = err
	return e
}

// NewValidation creates a validation error (400)
func NewValidation(message string) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFound creates a not found error (404)
func NewNotFound(entity string, id any) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", entity),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"entity": entity, "id": id},
	}
}

// NewBusinessRule creates a business rule violation error (422)
func NewBusinessRule(code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// NewSubmissionInProgress is returned when a submit is issued while another one is running.
func NewSubmissionInProgress() *AppError {
	return &AppError{
		Code:       CodeSubmissionInProgress,
		Message:    "submission already in progress",
		HTTPStatus: http.StatusConflict,
	}
}

// NewSubmissionFailed wraps a backend failure. The message is shown to the user as is.
func NewSubmissionFailed(message string, cause error) *AppError {
	return &AppError{
		Code:       CodeSubmissionFailed,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        cause,
	}
}

// NewInternal creates an internal server error (hides details from client)
func NewInternal(err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewUnauthorized creates an authentication error (401)
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// NewForbidden creates an authorization error (403)
func NewForbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConflict creates a conflict error (409)
func NewConflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// AsAppError extracts AppError from error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code string) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if error is CodeNotFound
func IsNotFound(err error) bool {
	return HasCode(err, CodeNotFound)
}
