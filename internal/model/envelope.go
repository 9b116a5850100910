// Package model holds the types shared across layers: the response envelope
// and, in sub-packages, the entities and their request payloads.
package model

import "github.com/deppfellow/person-api/internal/errs"

// Envelope is the uniform JSON shape of every response body.
//
// Data is set on success, Errors only when field validation failed and
// Error only for server-side failures.
type Envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  []errs.FieldError `json:"errors,omitempty"`
	Error   *errs.ErrorDetail `json:"error,omitempty"`
}

// Success builds a successful envelope.
func Success(message string, data any) *Envelope {
	return &Envelope{
		Status:  true,
		Message: message,
		Data:    data,
	}
}

// Failure builds the envelope for an HTTPError.
func Failure(err *errs.HTTPError) *Envelope {
	return &Envelope{
		Status:  false,
		Message: err.Message,
		Errors:  err.Errors,
		Error:   err.Detail,
	}
}
