// Package errs defines custom error types and utilities.
//
// Its purpose is to create specific error structures
// (FieldError for request fields, HTTPError for API responses)
// so clients receive meaningful and consistent error envelopes.
//
//   - Return consistent error shapes to API clients (JSON).
//   - Support field-level validation errors.
//   - Carry a sanitised code/message pair for server-side failures
//     instead of raw driver errors.
//   - Play nicely with Go's standard errors package.
package errs

import "strings"

// FieldError represents a field-level validation error.
//
//	{ "field": "name", "message": "must not exceed 255 characters" }
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorDetail is the sanitised description of a server-side failure.
// It never contains driver messages or stack traces.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HTTPError is the error type handlers and services return.
//
// The global error handler renders it into the response envelope:
//   - Status selects the HTTP status code.
//   - Message becomes the envelope message.
//   - Errors becomes the envelope "errors" array (field validation only).
//   - Detail becomes the envelope "error" object (server failures only).
//
// Code is a machine-friendly identifier (e.g. "BAD_REQUEST") used in logs.
type HTTPError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Status  int          `json:"status"`
	Errors  []FieldError `json:"errors,omitempty"`
	Detail  *ErrorDetail `json:"error,omitempty"`

	// cause is the underlying error, kept for logs only.
	cause error
}

// Error makes *HTTPError satisfy the error interface.
func (e *HTTPError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *HTTPError) Unwrap() error {
	return e.cause
}

// Is reports whether target is also an *HTTPError.
// It does not compare Code or Status.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	clone := *e
	clone.Message = message
	return &clone
}

// WithDetail returns a copy of this HTTPError carrying detail.
func (e *HTTPError) WithDetail(detail *ErrorDetail) *HTTPError {
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a copy of this HTTPError wrapping cause.
func (e *HTTPError) WithCause(cause error) *HTTPError {
	clone := *e
	clone.cause = cause
	return &clone
}

// MakeUpperCaseWithUnderscores converts a string into UPPER_CASE_WITH_UNDERSCORES.
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
