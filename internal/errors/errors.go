// Package errors provides ggrep's sentinel errors and wrapping helpers.
//
// Grounded on the teacher's internal/errors package (same Wrap/Wrapf/New/
// Is/As/Unwrap helpers over the standard library's errors package, same
// MultiError accumulator). The teacher's sentinel list is dominated by
// connection/authentication/protocol errors from its SSH client-server
// model; ggrep is a single local process with no network or auth
// surface, so those sentinels are dropped and replaced with the file/
// argument errors spec.md's error-handling design (§7) actually needs.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions spec.md §7 names.
var (
	// File/IO errors (kind 3: per-file I/O error).
	ErrFileNotFound     = errors.New("file not found")
	ErrFileAccessDenied = errors.New("file access denied")
	ErrInvalidPath      = errors.New("invalid path")
	ErrReadFailed       = errors.New("read failed")
	ErrWriteFailed      = errors.New("write failed")

	// Argument/configuration errors (kind 1: bad command line).
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidPattern  = errors.New("invalid pattern")

	// Counter overflow (spec.md §7 kind 7).
	ErrCountOverflow = errors.New("match counter overflow")

	ErrInternal = errors.New("internal error")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// New creates a new error with a formatted message.
func New(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Is reports whether err is (or wraps) target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to extract a specific error type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the wrapped error, if any.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// MultiError accumulates multiple independent errors, used where ggrep
// must keep going after a per-file failure (spec.md §7's "continue past
// this file" contract) but still report every failure at the end.
type MultiError struct {
	errors []error
}

// NewMultiError returns an empty MultiError.
func NewMultiError() *MultiError {
	return &MultiError{}
}

// Add appends err, ignoring nil.
func (m *MultiError) Add(err error) {
	if err != nil {
		m.errors = append(m.errors, err)
	}
}

// HasErrors reports whether any error was added.
func (m *MultiError) HasErrors() bool {
	return len(m.errors) > 0
}

// Error implements the error interface.
func (m *MultiError) Error() string {
	switch len(m.errors) {
	case 0:
		return ""
	case 1:
		return m.errors[0].Error()
	default:
		return fmt.Sprintf("multiple errors occurred: %v", m.errors)
	}
}

// Errors returns all collected errors.
func (m *MultiError) Errors() []error {
	return m.errors
}

// ErrorOrNil returns nil if no errors were added, otherwise m.
func (m *MultiError) ErrorOrNil() error {
	if m.HasErrors() {
		return m
	}
	return nil
}
