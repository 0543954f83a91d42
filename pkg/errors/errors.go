// Package errors provides structured error types for texatlas.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into three groups:
//   - Catalog misuse (INVALID_DIMENSION, DUPLICATE_ID): surfaced immediately
//   - Packing failures (RECTANGLE_TOO_LARGE, CAPACITY_EXCEEDED): fatal for the run
//   - I/O failures (DECODE_FAILURE, ENCODE_FAILURE, IO_ERROR)
//
// DECODE_FAILURE is the only recoverable code: the offending source file is
// logged and skipped.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeRectangleTooLarge, "%s is %dx%d", id, w, h)
//	if errors.Is(err, errors.ErrCodeRectangleTooLarge) {
//	    // Handle oversized input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIO, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Catalog errors
	ErrCodeInvalidDimension Code = "INVALID_DIMENSION"
	ErrCodeDuplicateID      Code = "DUPLICATE_ID"

	// Packing errors
	ErrCodeRectangleTooLarge Code = "RECTANGLE_TOO_LARGE"
	ErrCodeCapacityExceeded  Code = "CAPACITY_EXCEEDED"

	// I/O errors
	ErrCodeDecodeFailure Code = "DECODE_FAILURE"
	ErrCodeEncodeFailure Code = "ENCODE_FAILURE"
	ErrCodeIO            Code = "IO_ERROR"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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

// Is reports whether err carries the given error code.
// It unwraps the error chain looking for a coded error with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no coded error is found in the chain.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var ee *EncodeError
	if errors.As(err, &ee) {
		return ee.Code()
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

// EncodeError reports a failed run of the external texture encoder.
// Stdout and Stderr hold the captured process output verbatim.
type EncodeError struct {
	Tool     string
	ExitCode int
	Stdout   []byte
	Stderr   []byte
	Err      error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
	if len(e.Stdout) > 0 {
		msg += "\nstdout:\n" + string(e.Stdout)
	}
	if len(e.Stderr) > 0 {
		msg += "\nstderr:\n" + string(e.Stderr)
	}
	return fmt.Sprintf("%s: %s", ErrCodeEncodeFailure, msg)
}

// Unwrap returns the underlying process error.
func (e *EncodeError) Unwrap() error { return e.Err }

// Code returns the error code for this error type.
func (e *EncodeError) Code() Code {
	return ErrCodeEncodeFailure
}
