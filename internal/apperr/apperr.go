// Package apperr defines the domain error taxonomy shared by every module.
//
// All expected failures travel as *Error values carrying an HTTP status, a
// human message and (for validation and conflict outcomes) a per-field message
// map. Anything that is not an *Error surfaces as a bare 500 with no detail.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable error codes. `Is` compares on these, so they are
// part of the package contract.
const (
	ErrValidation   = "ErrValidation"
	ErrUnauthorized = "ErrUnauthorized"
	ErrForbidden    = "ErrForbidden"
	ErrNotFound     = "ErrNotFound"
	ErrConflict     = "ErrConflict"
	ErrInternal     = "ErrInternal"
)

// FieldMessages maps a payload field name to the list of messages raised for it.
type FieldMessages map[string][]string

// Error is a structured domain error. It carries enough metadata for the
// response envelope formatter to render it without enumerating error types.
type Error struct {
	// Code is a stable machine-readable identifier (e.g. "ErrConflict").
	Code string

	// Status is the HTTP status this error maps to.
	Status int

	// Message is the human-readable summary surfaced to clients.
	Message string

	// Messages holds optional per-field detail (validation, duplicate uniques).
	Messages FieldMessages

	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Is matches on the stable Code so copies created via WithCause still compare
// equal to their constructor family under errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy of the error wrapping the underlying cause.
func (e *Error) WithCause(err error) *Error {
	if err == nil {
		return e
	}
	cp := *e
	cp.cause = err
	return &cp
}

// WithMessages returns a copy of the error carrying a per-field message map.
func (e *Error) WithMessages(fields FieldMessages) *Error {
	cp := *e
	cp.Messages = fields
	return &cp
}

func newError(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Validation builds a 400 error with a per-field message map.
func Validation(message string, fields FieldMessages) *Error {
	return newError(ErrValidation, http.StatusBadRequest, message).WithMessages(fields)
}

// Unauthorized builds a 401 error.
func Unauthorized(message string) *Error {
	return newError(ErrUnauthorized, http.StatusUnauthorized, message)
}

// Forbidden builds a 403 error.
func Forbidden(message string) *Error {
	return newError(ErrForbidden, http.StatusForbidden, message)
}

// NotFound builds a 404 error.
func NotFound(message string) *Error {
	return newError(ErrNotFound, http.StatusNotFound, message)
}

// Conflict builds a 409 error, optionally with per-field detail.
func Conflict(message string, fields FieldMessages) *Error {
	return newError(ErrConflict, http.StatusConflict, message).WithMessages(fields)
}

// Internal builds a 500 error wrapping the unexpected cause. The formatter
// never exposes the cause to clients.
func Internal(err error) *Error {
	return newError(ErrInternal, http.StatusInternalServerError, "internal server error").WithCause(err)
}

// As extracts an *Error from an error chain, or nil when the chain holds none.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsStatus reports whether err is a domain error with the given HTTP status.
func IsStatus(err error, status int) bool {
	ae := As(err)
	return ae != nil && ae.Status == status
}
