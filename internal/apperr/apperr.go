// Package apperr defines the closed taxonomy of operational errors the API
// can surface to clients. Every failure in the request pipeline is resolved
// to exactly one of these kinds before a response is written.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind classifies a taxonomy error. The set is closed: the error normalizer
// switches exhaustively over these values.
type Kind int

const (
	// KindInternal is the catch-all for unclassified failures.
	KindInternal Kind = iota

	// KindValidation indicates malformed or out-of-policy input.
	KindValidation

	// KindAuthentication indicates a missing, invalid, or expired token,
	// or bad login credentials.
	KindAuthentication

	// KindAuthorization indicates an authenticated caller lacking
	// permission. Currently unused: ownership mismatches are surfaced as
	// not-found so cross-owner access is indistinguishable from absence.
	KindAuthorization

	// KindNotFound indicates a resource that is absent or not owned by
	// the caller.
	KindNotFound

	// KindConflict indicates a uniqueness violation.
	KindConflict

	// KindDatabase indicates a persistence fault that is not a client error.
	KindDatabase
)

// String returns the machine-readable wire code for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindAuthentication:
		return "AUTHENTICATION_ERROR"
	case KindAuthorization:
		return "AUTHORIZATION_ERROR"
	case KindNotFound:
		return "NOT_FOUND_ERROR"
	case KindConflict:
		return "CONFLICT_ERROR"
	case KindDatabase:
		return "DATABASE_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// StatusCode returns the HTTP status code associated with the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FieldError is a single field-level validation diagnostic. Details are
// ordered and surfaced to the caller verbatim.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a classified, client-safe operational failure. It is the single
// vocabulary every component emits into.
type Error struct {
	Kind    Kind
	Message string
	Details []FieldError

	// cause preserves the underlying error for logs; it is never
	// serialized to the client.
	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Code returns the machine-readable wire code.
func (e *Error) Code() string {
	return e.Kind.String()
}

// StatusCode returns the HTTP status for the error.
func (e *Error) StatusCode() int {
	return e.Kind.StatusCode()
}

// Operational reports whether the error is safe to surface verbatim to the
// client. Database and internal faults are not.
func (e *Error) Operational() bool {
	return e.Kind != KindDatabase && e.Kind != KindInternal
}

// WithCause attaches an underlying error for logging and returns the
// receiver for chaining.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// Validation builds a 400 error carrying one detail per violated rule.
func Validation(message string, details ...FieldError) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// Authentication builds a 401 error.
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Authorization builds a 403 error.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound builds a 404 error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a 409 error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Database builds a 500 error for persistence faults.
func Database(message string) *Error {
	return &Error{Kind: KindDatabase, Message: message}
}

// Internal builds a generic 500 error.
func Internal(message string) *Error {
	return &Error{Kind: KindInternal, Message: message}
}
