// Package errors provides error types and utilities for HermesX.
// It extends the standard errors package with wrapping and sentinel helpers.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios
var (
	// ErrTimeout indicates an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrBlocked indicates the remote host answered with an active blocking
	// signal (401/403/429/503). Terminal for the current fetch: no retry.
	ErrBlocked = errors.New("request blocked by remote host")

	// ErrNoContent indicates a fetch yielded no usable body after retries
	ErrNoContent = errors.New("no content retrieved")

	// ErrInvalidInput indicates invalid input was provided
	ErrInvalidInput = errors.New("invalid input")

	// ErrConnectionFailed indicates a connection could not be established
	ErrConnectionFailed = errors.New("connection failed")

	// ErrRenderFailed indicates a headless render attempt did not complete
	ErrRenderFailed = errors.New("render failed")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: msg, cause: err}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{msg: fmt.Sprintf(format, args...), cause: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns an error value.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Unwrap returns the result of calling the Unwrap method on err, if any.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// Join wraps the given errors into a single error, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// IsBlocked reports whether the error is an active-blocking error.
func IsBlocked(err error) bool {
	return Is(err, ErrBlocked)
}

// IsTimeout reports whether the error is a timeout error.
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout)
}

// IsNoContent reports whether the error is a no-content error.
func IsNoContent(err error) bool {
	return Is(err, ErrNoContent)
}
