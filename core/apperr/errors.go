// Package apperr defines the error kinds surfaced by the library core.
package apperr

import (
	"errors"
	"fmt"
)

// Kind sentinels. Match with errors.Is.
var (
	ErrNotFound          = errors.New("not found")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDependencyFailure = errors.New("dependency failure")
	ErrUnauthenticated   = errors.New("unauthenticated")
)

// Error carries a kind plus a client-facing message.
type Error struct {
	Kind error
	Msg  string
	Err  error // optional underlying cause, not exposed to clients
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return e.Msg
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func PermissionDenied(format string, args ...any) error {
	return newError(ErrPermissionDenied, format, args...)
}

func InvalidInput(format string, args ...any) error {
	return newError(ErrInvalidInput, format, args...)
}

// Unauthenticated is raised by the identity layer for bad credentials.
func Unauthenticated(format string, args ...any) error {
	return newError(ErrUnauthenticated, format, args...)
}

// DependencyFailure wraps a failed collaborator call (blob store, duration
// extractor, cache) under a client-facing message.
func DependencyFailure(cause error, format string, args ...any) error {
	e := newError(ErrDependencyFailure, format, args...)
	e.Err = cause
	return e
}

// KindOf returns the kind sentinel of err, or nil for errors that carry none.
func KindOf(err error) error {
	for _, kind := range []error{ErrNotFound, ErrPermissionDenied, ErrInvalidInput, ErrDependencyFailure, ErrUnauthenticated} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Message returns the client-facing text for err. Errors without a kind are
// reported generically so store internals never leak.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return "internal server error"
}
