package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork wraps transport-level failures: the request could not
	// complete at all.
	ErrNetwork = errors.New("network failure")
	// ErrAlreadyTracked is returned when adding a tracking number the
	// user already tracks (HTTP 409).
	ErrAlreadyTracked = errors.New("already tracked")
	// ErrNotFound is returned when the referenced tracked item does not
	// exist for this user (HTTP 404).
	ErrNotFound = errors.New("tracked item not found")
)

// ServerError represents a non-2xx response or a well-formed error
// payload from the backend.
type ServerError struct {
	// StatusCode is the HTTP status, or 0 when the failure came from an
	// error payload inside a 2xx response.
	StatusCode int
	// Message is the backend-provided error text, if any.
	Message string
}

// Error implements the error interface.
func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (status %d)", e.StatusCode)
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("server error: %s", e.Message)
	}
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message)
}
