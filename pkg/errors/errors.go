// Package errors provides structured error types for netlayout.
//
// Error codes give the CLI and the HTTP service a shared, machine-readable
// vocabulary for failures outside the layout engine. The engine itself never
// returns errors: every layout session ends in a completed layout.
//
// # Error Codes
//
//   - INVALID_*: input, configuration and topology validation failures
//   - NOT_FOUND: unknown network or resource
//   - LAYOUT_PENDING, CONFLICT: requests that collide with layout state
//   - INTERNAL, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "accuracy must be positive, got %g", a)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // handle
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidTopology, cause, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is the machine-readable part of an [Error]. The HTTP service sends it
// as the "error" field of response bodies.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidTopology Code = "INVALID_TOPOLOGY"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidName     Code = "INVALID_NAME"

	ErrCodeNotFound Code = "NOT_FOUND"

	// The network exists but its session is not in a state that allows the
	// request.
	ErrCodeLayoutPending Code = "LAYOUT_PENDING"
	ErrCodeConflict      Code = "CONFLICT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error carries a [Code], a message for people and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap is like [New] but records cause for errors.Is and errors.As.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := asError(err); ok {
		return e.Code
	}
	return ""
}

// Is reports whether the first *Error in err's chain has the given code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// UserMessage strips the code prefix from *Error values. Other errors are
// returned as their Error string.
func UserMessage(err error) string {
	if e, ok := asError(err); ok {
		return e.Message
	}
	return err.Error()
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
