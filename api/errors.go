// Package api
//
// Common error types and error handling utilities for the chunkedbuf library.

package api

import "fmt"

// Common errors used across the library.
var (
	// ErrMarkExceedsProjection is returned when a writer confirms more
	// bytes than the last projection exposed. This is caller misuse, not
	// an I/O condition: honoring the count would corrupt stream order.
	ErrMarkExceedsProjection = fmt.Errorf("confirmed count exceeds bytes exposed by last projection")

	// ErrNegativeCount is returned when a byte count argument is negative.
	ErrNegativeCount = fmt.Errorf("negative byte count")

	// ErrNotSupported is returned by sinks unavailable on this platform.
	ErrNotSupported = fmt.Errorf("operation not supported")

	// ErrSinkClosed is returned by sinks after Close.
	ErrSinkClosed = fmt.Errorf("sink is closed")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeContractViolation
	ErrCodeAllocExhausted
	ErrCodeNotSupported
	ErrCodeInternal
)

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying sentinel for errors.Is checks.
func (e *Error) Unwrap() error { return e.Err }

// NewError creates a new structured error.
func NewError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// ContractViolation wraps a sentinel as a caller contract violation.
func ContractViolation(message string, err error) *Error {
	return NewError(ErrCodeContractViolation, message, err)
}
