package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrTransport         = errors.New("transport error")
	ErrAuthExpired       = errors.New("authentication expired")
	ErrMalformedResponse = errors.New("malformed response")
	ErrInvalidBaseURL    = errors.New("invalid base URL")
)

// TransportError means no response was received.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// APIError is a response the client could not accept: either a non-2xx
// status or, with Malformed set, a 2xx body of the wrong shape.
type APIError struct {
	Status    int
	Message   string
	Malformed bool
	RequestID string
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuthExpired:
		return e.Status == http.StatusUnauthorized
	case ErrMalformedResponse:
		return e.Malformed
	}
	return false
}

// StatusMessage is the fallback message for a non-2xx response without an
// error field.
func StatusMessage(status int) string {
	text := http.StatusText(status)
	if text == "" {
		text = fmt.Sprintf("status %d", status)
	}
	return "request failed: " + text
}
