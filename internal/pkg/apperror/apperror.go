package apperror

import (
	"errors"
	"net/http"
)

// AppError carries the HTTP status and user-facing message of a failed operation.
type AppError struct {
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // Underlying cause, never exposed to the client
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError with the same code and message, so wrapped
// sentinels still satisfy errors.Is.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// New creates a new AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}

// CodeOf returns the HTTP status carried by err, or 500 when err is not an AppError.
func CodeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
