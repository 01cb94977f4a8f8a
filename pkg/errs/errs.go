// Package errs provides coded errors shared by the table builder packages.
// Errors compare by code, so callers can match with errors.Is against the
// exported sentinels regardless of message or wrapped cause.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies an error category.
type Code string

const (
	CodeUnknown         Code = "UNKNOWN"
	CodeReadOnly        Code = "READ_ONLY"
	CodeOutOfBounds     Code = "OUT_OF_BOUNDS"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeBadMethod       Code = "BAD_METHOD"
	CodeNotFound        Code = "NOT_FOUND"
	CodeRender          Code = "RENDER"
	CodeConfig          Code = "CONFIG"
)

// Sentinels for errors.Is matching.
var (
	ErrReadOnly        = &Error{Code: CodeReadOnly, Message: "container is read-only"}
	ErrOutOfBounds     = &Error{Code: CodeOutOfBounds, Message: "key not found"}
	ErrInvalidArgument = &Error{Code: CodeInvalidArgument, Message: "invalid argument"}
	ErrBadMethod       = &Error{Code: CodeBadMethod, Message: "unsupported operation"}
	ErrNotFound        = &Error{Code: CodeNotFound, Message: "not found"}
	ErrRender          = &Error{Code: CodeRender, Message: "render failed"}
	ErrConfig          = &Error{Code: CodeConfig, Message: "invalid configuration"}
)

// Error is a structured error carrying a stable code and optional details.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Wrapped error
}

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Code == other.Code
	}
	return false
}

// New creates an error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps err with a code and message. Returns nil when err is nil.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Wrapped: err}
}

// Wrapf wraps err with a formatted message. Returns nil when err is nil.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Wrapped: err}
}

// WithDetail attaches a key/value detail and returns the receiver.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// HasCode reports whether err carries code anywhere in its chain.
func HasCode(err error, code Code) bool {
	return errors.Is(err, &Error{Code: code})
}

// DetailsOf returns the details of the first *Error in err's chain.
func DetailsOf(err error) map[string]any {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}
