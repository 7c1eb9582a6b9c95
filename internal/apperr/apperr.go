// Package apperr defines the error kinds shared by services and handlers and
// maps them to HTTP status codes.
package apperr

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("rate limited")
)

// Error carries a client-facing detail alongside its kind and optional cause.
type Error struct {
	Kind   error
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func NotFound(detail string) error     { return &Error{Kind: ErrNotFound, Detail: detail} }
func Conflict(detail string) error     { return &Error{Kind: ErrConflict, Detail: detail} }
func Validation(detail string) error   { return &Error{Kind: ErrValidation, Detail: detail} }
func Unauthorized(detail string) error { return &Error{Kind: ErrUnauthorized, Detail: detail} }
func Forbidden(detail string) error    { return &Error{Kind: ErrForbidden, Detail: detail} }
func RateLimited(detail string) error  { return &Error{Kind: ErrRateLimited, Detail: detail} }

// Invalid wraps a validator error as a validation failure.
func Invalid(err error) error {
	return &Error{Kind: ErrValidation, Detail: "invalid request", Err: err}
}

// Status maps an error to the HTTP status returned to clients.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for err. Unknown errors yield an
// empty string so callers can substitute a generic message.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return ""
}
