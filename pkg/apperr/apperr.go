// Package apperr defines the error taxonomy shared by the storefront
// services and the HTTP layer.
//
// Services return *Error values (or wrap them); controllers hand any error
// to response.Fail, which picks the status code and the public message:
//
//	ValidationError → 400
//	AuthError       → 401
//	NotFoundError   → 404
//	ConflictError   → 500
//	anything else   → 500 "Internal server error"
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuth
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a stable Kind and a message safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation reports malformed, missing or out-of-enum input.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports that the referenced record does not exist.
func NotFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Auth reports a missing, invalid or expired credential.
func Auth(message string) error {
	return &Error{Kind: KindAuth, Message: message}
}

// Conflict reports contention that outlasted the retry budget.
func Conflict(message string, cause error) error {
	return &Error{Kind: KindConflict, Message: message, Err: cause}
}

// Internal wraps an unexpected failure. Its cause is logged, never shown.
func Internal(cause error) error {
	return &Error{Kind: KindInternal, Message: "Internal server error", Err: cause}
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps err onto a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-facing message for err. Causes of
// internal errors stay out of it.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return "Internal server error"
}
