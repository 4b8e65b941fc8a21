// Package domain defines the core domain models for LanLink.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "LL-NET-4060")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it is a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Discovery errors (DISC)
// ============================================================================

var (
	// ErrNoLocalAddress indicates the node's own LAN address could not be
	// resolved. Fatal to service creation.
	ErrNoLocalAddress = NewDomainError("LL-DISC-5001", "no local network address")

	// ErrNoPeerFound indicates a subnet scan completed without finding a
	// compatible server. Expected during self-election, never fatal.
	ErrNoPeerFound = NewDomainError("LL-DISC-4040", "no peer found on subnet")
)

// ============================================================================
// Network errors (NET)
// ============================================================================

var (
	// ErrBindFailed indicates the listening socket could not be bound
	// (port in use or OS-level failure). Fatal to server startup.
	ErrBindFailed = NewDomainError("LL-NET-5090", "bind failed")

	// ErrUnexpectedResponse indicates a reachable address answered a
	// liveness probe with something other than the liveness reply.
	ErrUnexpectedResponse = NewDomainError("LL-NET-4060", "unexpected probe response")

	// ErrConnectionClosed indicates an operation on a closed connection.
	ErrConnectionClosed = NewDomainError("LL-NET-4100", "connection closed")

	// ErrFrameTooLarge indicates an inbound frame exceeded the protocol
	// size limit.
	ErrFrameTooLarge = NewDomainError("LL-NET-4130", "frame exceeds size limit")
)
