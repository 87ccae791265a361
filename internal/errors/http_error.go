package errors

import (
	stderrors "errors"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helpers for the error kinds the API reports.
func NotFound(msg string) *HTTPError        { return NewHTTPError(http.StatusNotFound, msg) }
func InvalidArgument(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
func Conflict(msg string) *HTTPError        { return NewHTTPError(http.StatusConflict, msg) }
func Unauthorized(msg string) *HTTPError    { return NewHTTPError(http.StatusUnauthorized, msg) }
func Internal(msg string) *HTTPError        { return NewHTTPError(http.StatusInternalServerError, msg) }

// StatusCode returns err's HTTP status, or 500 for unrecognized errors.
func StatusCode(err error) int {
	var he *HTTPError
	if stderrors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

// PublicMessage returns a message safe to expose to API callers.
// Unrecognized errors collapse to a generic message so store and
// transport details never leak.
func PublicMessage(err error) string {
	var he *HTTPError
	if stderrors.As(err, &he) {
		return he.Message
	}
	return "Internal server error"
}
