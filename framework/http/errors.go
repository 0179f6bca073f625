package http

import (
	"fmt"
	"net/http"
)

// ── Error taxonomy ───────────────────────────────────────────────────────────

// StatusError is an error that already knows which HTTP status it maps to.
// Handlers return it and the dispatcher writes the matching envelope.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string { return e.Message }

// BadRequestf builds a 400 error (malformed input, unparsable values).
func BadRequestf(format string, args ...any) *StatusError {
	return &StatusError{Code: http.StatusBadRequest, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a 404 error.
func NotFoundf(format string, args ...any) *StatusError {
	return &StatusError{Code: http.StatusNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unauthorizedf builds a 401 error.
func Unauthorizedf(format string, args ...any) *StatusError {
	return &StatusError{Code: http.StatusUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Internalf builds a 500 error.
func Internalf(format string, args ...any) *StatusError {
	return &StatusError{Code: http.StatusInternalServerError, Message: fmt.Sprintf(format, args...)}
}

// UsageError marks a programming mistake against the envelope API, e.g.
// a raw response without headers or a stream response without a stream.
// The dispatcher surfaces it as a 500; it is never recovered mid-request.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return "response: " + e.Reason }
