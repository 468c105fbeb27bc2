// Package errors provides structured error types for depsummary.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across all pipeline stages
//   - Machine-readable error codes for CI integration
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every fatal condition in the tool maps to exactly one code. Nothing is
// ever downgraded to a warning: this is a compliance tool, and silent
// partial success is unacceptable.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeLicenseSelection, "no acceptable license for %s", name)
//	if errors.Is(err, errors.ErrCodeLicenseSelection) {
//	    // Handle selection failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "failed to fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different failure categories.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPackage Code = "INVALID_PACKAGE"
	ErrCodeInvalidTarget  Code = "INVALID_TARGET"
	ErrCodeInvalidPolicy  Code = "INVALID_POLICY"

	// Cargo collaborator errors
	ErrCodeSubprocess      Code = "SUBPROCESS_FAILED"
	ErrCodeMetadataInvalid Code = "METADATA_INVALID"

	// Static correction table errors
	ErrCodeFixupCheck  Code = "FIXUP_CHECK_FAILED"
	ErrCodeUnusedFixup Code = "UNUSED_FIXUP"

	// License resolution errors
	ErrCodeLicenseSelection Code = "LICENSE_SELECTION_FAILED"
	ErrCodeLicenseNotFound  Code = "LICENSE_TEXT_NOT_FOUND"
	ErrCodeLicenseAmbiguous Code = "LICENSE_TEXT_AMBIGUOUS"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"

	// Output errors
	ErrCodeDriftMismatch Code = "DRIFT_MISMATCH"
	ErrCodeRender        Code = "RENDER_FAILED"

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
