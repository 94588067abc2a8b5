// Package errno provides structured errors with HTTP status mapping.
//
// Each error carries a stable numeric code, the HTTP status to surface it
// with, and a human-readable message. Handlers translate *Errno values into
// HTTP responses; business code wraps underlying causes with WithCause.
package errno

import (
	"errors"
	"fmt"
	"net/http"
)

// Errno represents a structured error with code and message.
type Errno struct {
	// Code is the unique error code.
	Code int `json:"code"`

	// HTTP is the HTTP status code to return.
	HTTP int `json:"-"`

	// Message is the error message.
	Message string `json:"message"`

	// cause is the underlying error.
	cause error
}

// Error implements the error interface.
func (e *Errno) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("errno %d: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("errno %d: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Errno) Unwrap() error {
	return e.cause
}

// Is reports whether target is the same registered errno.
// Two Errno values match on Code so that wrapped copies created by
// WithMessage or WithCause still compare equal to the registered sentinel.
func (e *Errno) Is(target error) bool {
	var t *Errno
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithMessage returns a copy of the errno with a custom message.
func (e *Errno) WithMessage(format string, args ...any) *Errno {
	return &Errno{
		Code:    e.Code,
		HTTP:    e.HTTP,
		Message: fmt.Sprintf(format, args...),
		cause:   e.cause,
	}
}

// WithCause returns a copy of the errno wrapping the underlying error.
func (e *Errno) WithCause(cause error) *Errno {
	return &Errno{
		Code:    e.Code,
		HTTP:    e.HTTP,
		Message: e.Message,
		cause:   cause,
	}
}

// New creates a new Errno.
func New(code, httpStatus int, message string) *Errno {
	return &Errno{
		Code:    code,
		HTTP:    httpStatus,
		Message: message,
	}
}

// FromError extracts an *Errno from err, walking the wrap chain.
// Unrecognized errors map to ErrInternal with the original message kept.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	var e *Errno
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.WithCause(err)
}

// Service errors. Codes follow the AABBB format: AA is the service
// code (10 for docuchat), BBB the sequence within a category.
var (
	// ErrInternal is the fallback for unclassified failures.
	ErrInternal = New(10001, http.StatusInternalServerError, "Internal server error")

	// ErrInvalidRequest covers malformed request parameters.
	ErrInvalidRequest = New(10002, http.StatusBadRequest, "Invalid request parameters")

	// ErrUnsupportedType is returned when a document's extension has no
	// registered loader.
	ErrUnsupportedType = New(10101, http.StatusBadRequest, "Unsupported file type")

	// ErrStorageWrite is returned when the raw document cannot be persisted.
	ErrStorageWrite = New(10102, http.StatusInternalServerError, "Failed to write document")

	// ErrEmbedding is returned when loading, chunking, embedding or indexing
	// fails after the raw document was written; the write is compensated.
	ErrEmbedding = New(10103, http.StatusInternalServerError, "Failed to embed document")

	// ErrRemoval is returned when deleting a document or its vectors fails.
	ErrRemoval = New(10104, http.StatusInternalServerError, "Failed to remove document")

	// ErrNoData signals an empty vector index; a legitimate state, not a bug.
	ErrNoData = New(10201, http.StatusNotFound, "No data available")

	// ErrGeneration is returned when the chat provider fails to answer.
	ErrGeneration = New(10202, http.StatusInternalServerError, "Failed to generate answer")

	// ErrNoModels is returned when the chat provider's model catalog
	// cannot be reached.
	ErrNoModels = New(10203, http.StatusInternalServerError, "No models available")
)
