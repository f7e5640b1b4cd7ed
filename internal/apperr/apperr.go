// Package apperr defines the domain error taxonomy shared by services and
// handlers. Services return these errors; the HTTP boundary translates each
// kind to its status code and a structured {error: message} body, so no typed
// error crosses the external boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind discriminates domain errors for status-code mapping
type Kind int

const (
	// KindValidation is malformed or missing input (400)
	KindValidation Kind = iota
	// KindNotFound is an absent resource (404)
	KindNotFound
	// KindAuthorization is a role, ownership, or approval failure (403)
	KindAuthorization
	// KindConflict is a store uniqueness violation (409)
	KindConflict
	// KindConcurrency is optimistic-lock exhaustion, retryable (400)
	KindConcurrency
	// KindInternal is anything unexpected (500)
	KindInternal
)

// Error is a domain error carrying a kind and a caller-safe message
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status code for this error kind.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindConcurrency:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthorization:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Validation creates a validation error.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Authorization creates a role/ownership/approval failure.
func Authorization(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

// Conflict creates a uniqueness-violation error.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// Concurrency creates an optimistic-lock exhaustion error. The message is
// deliberately distinguishable from validation failures so callers know the
// operation is safe to retry.
func Concurrency(message string) *Error {
	return &Error{Kind: KindConcurrency, Message: message}
}

// Internal creates an error for anything unexpected. When the last argument
// is an error it is kept as the cause so callers can still unwrap it.
func Internal(format string, args ...interface{}) *Error {
	e := &Error{Kind: KindInternal, Message: fmt.Sprintf(format, args...)}
	if len(args) > 0 {
		if cause, ok := args[len(args)-1].(error); ok {
			e.Cause = cause
		}
	}
	return e
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
