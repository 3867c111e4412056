// Package domain defines the core domain models for DocMesh.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
// Codes are stable across releases and are surfaced verbatim to API clients.
type DomainError struct {
	Code    string // Error code (e.g., "DM-DOC-4040")
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

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Document Errors (DOC)
// ============================================================================

var (
	// ErrDocumentNotFound indicates the requested document does not exist.
	ErrDocumentNotFound = NewDomainError("DM-DOC-4040", "document not found")

	// ErrDocumentExists indicates a create collided with an existing id.
	ErrDocumentExists = NewDomainError("DM-DOC-4090", "document already exists")

	// ErrDocumentValidation indicates document data validation failed.
	ErrDocumentValidation = NewDomainError("DM-DOC-4001", "document validation failed")
)

// ============================================================================
// Realtime Errors (RT)
// ============================================================================

var (
	// ErrNotJoined indicates a room-scoped message arrived from a
	// connection that has not joined any document.
	ErrNotJoined = NewDomainError("DM-RT-4001", "connection has not joined a document")

	// ErrProtocolViolation indicates a structurally malformed inbound message.
	ErrProtocolViolation = NewDomainError("DM-RT-4000", "malformed message")

	// ErrEditRateExceeded indicates a connection exceeded the inbound
	// message budget and the message was discarded.
	ErrEditRateExceeded = NewDomainError("DM-RT-4290", "edit rate exceeded")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternalServer indicates an internal server error.
	ErrInternalServer = NewDomainError("DM-SYS-5000", "internal server error")

	// ErrStorageError indicates a durable-store IO failure.
	ErrStorageError = NewDomainError("DM-SYS-5001", "storage error")

	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("DM-SYS-4000", "bad request")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("DM-ARG-1001", "invalid argument")

	// ErrMissingArgument indicates a required argument is missing.
	ErrMissingArgument = NewDomainError("DM-ARG-1002", "missing required argument")
)
