// Package errors provides structured error types for seatmap.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the editor library, CLI and editor service
//   - Machine-readable error codes for programmatic handling
//   - User-friendly notice messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure taxonomy of the editor:
//   - LOAD_FAILED: a diagram or geometry fetch failed (recoverable)
//   - SAVE_FAILED: a Room or Seat geometry write failed (per entity)
//   - MALFORMED_TRANSFORM: a transform string could not be parsed
//   - INVALID_*: input or configuration validation failures
//
// Constraint violations during a gesture are never errors; they are
// clamped silently by package constraint.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeMalformedTransform, "no translate in %q", s)
//	if errors.Is(err, errors.ErrCodeMalformedTransform) {
//	    // a rendered transform and the model disagree
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLoadFailed, origErr, "floor %d diagram", n)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidID     Code = "INVALID_ID"

	// Editor failures
	ErrCodeLoadFailed         Code = "LOAD_FAILED"
	ErrCodeSaveFailed         Code = "SAVE_FAILED"
	ErrCodeMalformedTransform Code = "MALFORMED_TRANSFORM"
	ErrCodeDetached           Code = "DETACHED"
	ErrCodeNoSession          Code = "NO_SESSION"

	// Resource and transport errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeNetwork  Code = "NETWORK_ERROR"
	ErrCodeTimeout  Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
// The outermost *Error decides: a SAVE_FAILED wrapping a NETWORK_ERROR
// is a SAVE_FAILED.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
