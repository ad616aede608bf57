package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotConnected indicates an operation was attempted while the backend
	// is considered unreachable. No network call was made.
	ErrNotConnected = errors.New("not connected")

	// ErrDocumentNotFound indicates the targeted document left the
	// DocumentSet before the operation could commit.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrOperationInFlight indicates an identical operation is still running.
	ErrOperationInFlight = errors.New("operation already in progress")

	// ErrSessionClosed indicates the session has been torn down.
	ErrSessionClosed = errors.New("session closed")
)

// TransportError is a network-level failure: the backend was unreachable,
// the request timed out, or the response could not be decoded.
type TransportError struct {
	// Op names the backend operation (health, chat, upload, delete).
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError is a non-success HTTP status from the backend.
type ServerError struct {
	// Op names the backend operation (health, chat, upload, delete).
	Op string

	// StatusCode is the HTTP status returned.
	StatusCode int

	// Detail is the server-provided explanation, if any.
	Detail string
}

// Error implements error.
// The server-provided detail wins over the generic status line.
func (e *ServerError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("Error del servidor: %d", e.StatusCode)
}

// IsTransport reports whether err is or wraps a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsServer reports whether err is or wraps a ServerError.
func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// AsServerError extracts a ServerError from err.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
