// Package apperr defines the error kinds surfaced to callers of the core.
//
// An *Error carries a fixed, user-facing message. The underlying cause is kept
// for logging and errors.Is/As but is never part of Error().
package apperr

import (
	"errors"

	"github.com/rotisserie/eris"
)

// Kind classifies a failure for callers.
type Kind string

const (
	// KindUpstreamUnavailable means the discovery or reasoning service could
	// not be reached, failed, or timed out.
	KindUpstreamUnavailable Kind = "upstream_unavailable"
	// KindSchemaViolation means reasoning output failed validation after the
	// repair attempt.
	KindSchemaViolation Kind = "schema_violation"
	// KindInvalidInput means the caller supplied an empty or malformed value.
	KindInvalidInput Kind = "invalid_input"
)

// Error is a domain error with a fixed message.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates an Error without a cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an Error around cause. The cause is wrapped with eris so the
// stack is kept for logs.
func Wrap(cause error, kind Kind, msg string) *Error {
	if cause != nil {
		cause = eris.Wrap(cause, string(kind))
	}
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// WithMessage returns a copy of err carrying msg. Non-domain errors are
// classified as upstream failures.
func WithMessage(err error, msg string) *Error {
	var e *Error
	if errors.As(err, &e) {
		return &Error{Kind: e.Kind, Message: msg, cause: err}
	}
	return &Error{Kind: KindUpstreamUnavailable, Message: msg, cause: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "" when none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// InvalidInput is shorthand for New(KindInvalidInput, msg).
func InvalidInput(msg string) *Error {
	return New(KindInvalidInput, msg)
}
