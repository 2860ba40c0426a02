// Package errors provides structured error types for cpg-reducer.
//
// Error codes separate the two failure families the tool distinguishes:
// invalid invocation (bad node-type or format selection, unreadable input)
// and precondition violations in the input graph (a visited node missing a
// required attribute). Both are fatal; the codes exist so the CLI can
// phrase them differently and tests can assert on the category.
//
//	err := errors.New(errors.ErrCodeMissingAttribute, "node %q has no file attribute", name)
//	if errors.Is(err, errors.ErrCodeMissingAttribute) {
//	    // precondition violation
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Invocation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidNodeType Code = "INVALID_NODE_TYPE"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"

	// Input graph errors
	ErrCodeSyntax           Code = "SYNTAX"
	ErrCodeMissingAttribute Code = "MISSING_ATTRIBUTE"

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
