package tools

import (
	"errors"
	"fmt"
)

// FailureKind classifies a tool failure. Failures are values, not panics:
// every kind is reported back into the conversation as data so the model can
// adapt (re-read a file after a stale range, retry with overwrite, etc.).
type FailureKind string

const (
	// KindPathEscape means a resolved path left the repository root. Fatal to
	// the single tool call, never to the session. No I/O is performed.
	KindPathEscape FailureKind = "path_escape"
	// KindNotFound means the target file (or move source) does not exist.
	KindNotFound FailureKind = "not_found"
	// KindAlreadyExists means a write without the overwrite flag hit an
	// existing path.
	KindAlreadyExists FailureKind = "already_exists"
	// KindRangeOutOfBounds means edit/insert line numbers are inconsistent
	// with the file's current length.
	KindRangeOutOfBounds FailureKind = "range_out_of_bounds"
	// KindBadParameters means the payload failed shape validation before any
	// I/O was attempted.
	KindBadParameters FailureKind = "bad_parameters"
	// KindIO wraps an unexpected filesystem error (permissions, disk) that
	// does not fit a more specific kind.
	KindIO FailureKind = "io_error"
)

// Failure is the structured error type for every tool operation.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func failf(kind FailureKind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// PathEscapef builds a path_escape failure.
func PathEscapef(format string, args ...any) *Failure {
	return failf(KindPathEscape, format, args...)
}

// NotFoundf builds a not_found failure.
func NotFoundf(format string, args ...any) *Failure {
	return failf(KindNotFound, format, args...)
}

// AlreadyExistsf builds an already_exists failure.
func AlreadyExistsf(format string, args ...any) *Failure {
	return failf(KindAlreadyExists, format, args...)
}

// RangeOutOfBoundsf builds a range_out_of_bounds failure.
func RangeOutOfBoundsf(format string, args ...any) *Failure {
	return failf(KindRangeOutOfBounds, format, args...)
}

// BadParametersf builds a bad_parameters failure.
func BadParametersf(format string, args ...any) *Failure {
	return failf(KindBadParameters, format, args...)
}

// AsFailure extracts a *Failure from an error chain. Errors that are not
// failures are wrapped as io_error so the invoker stays total.
func AsFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return failf(KindIO, "%v", err)
}

// IsFailureKind reports whether err is a Failure of the given kind.
func IsFailureKind(err error, kind FailureKind) bool {
	var f *Failure
	return errors.As(err, &f) && f.Kind == kind
}
