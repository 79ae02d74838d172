// Package errors provides structured error types for varigrid.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes separate per-set recoverable conditions (a malformed variant set is
// skipped and the run continues) from run-level failures (invalid config,
// the rotation gate, or a run in which nothing was processed).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateKey, "duplicate variant %q", key)
//	if errors.Is(err, errors.ErrCodeDuplicateKey) {
//	    // Skip this set, keep going
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "apply layout to %s", name)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration and input errors
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidDocument Code = "INVALID_DOCUMENT"

	// Per-set recoverable conditions
	ErrCodeNoVariants        Code = "NO_VARIANTS"
	ErrCodeNoAttributes      Code = "NO_ATTRIBUTES"
	ErrCodeMissingAttributes Code = "MISSING_ATTRIBUTES"
	ErrCodeDuplicateKey      Code = "DUPLICATE_KEY"

	// Run-level failures
	ErrCodeRotation         Code = "ROTATION_NONZERO"
	ErrCodeNothingProcessed Code = "NOTHING_PROCESSED"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

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

// IsPerSet reports whether err is a per-set recoverable condition: the set
// is skipped and the run continues with the next container.
func IsPerSet(err error) bool {
	switch GetCode(err) {
	case ErrCodeNoVariants, ErrCodeNoAttributes, ErrCodeMissingAttributes, ErrCodeDuplicateKey:
		return true
	}
	return false
}
