// Package errors provides structured error types for the layout
// legalization toolchain.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the core, config, and CLI layers
//   - Machine-readable error codes for programmatic handling by a search driver
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: configuration validation failures (fatal)
//   - ID_*: splitting_id/packing_id range failures (non-fatal)
//   - OPTION_*: a decoded option could not be applied (non-fatal)
//   - INVARIANT_*: post-construction invariant breach (fatal, internal bug)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeEmptyRankList, "dataspace %q has no ranks", ds)
//	if errors.Is(err, errors.ErrCodeEmptyRankList) {
//	    // fatal: abort configuration load
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration fatal errors (spec §7: "Configuration fatal").
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeEmptyRankList      Code = "INVALID_EMPTY_RANK_LIST"
	ErrCodeMissingPermutation Code = "INVALID_MISSING_PERMUTATION"
	ErrCodeDivisionByZero     Code = "INVALID_DIVISION_BY_ZERO"

	// ID range errors (spec §7: "ID out of range").
	ErrCodeIDOutOfRange Code = "ID_OUT_OF_RANGE"

	// Option application errors (spec §7: "Option inapplicable").
	ErrCodeOptionInapplicable Code = "OPTION_INAPPLICABLE"

	// Invariant breach (spec §7: "Post-application invariant breach"), fatal.
	ErrCodeInvariantBreach Code = "INVARIANT_BREACH"

	// Generic internal error.
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
// It unwraps the error chain to the first *Error and compares that one's
// code; a matching code on a more deeply wrapped *Error is not found.
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

// Fatal reports whether a code represents a fatal error kind per spec §7:
// configuration and invariant-breach errors are never recovered locally,
// unlike ID-range and option-inapplicable errors which a search driver can
// skip past.
func Fatal(code Code) bool {
	switch code {
	case ErrCodeInvalidConfig, ErrCodeEmptyRankList, ErrCodeMissingPermutation,
		ErrCodeDivisionByZero, ErrCodeInvariantBreach:
		return true
	default:
		return false
	}
}
