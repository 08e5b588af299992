package api

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized is returned after a 401 response. The client's
	// OnUnauthorized hook has already run by the time a caller sees it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrProtocol marks a response that matches none of the shapes the
	// assessment protocol defines. Callers treat it as fatal.
	ErrProtocol = errors.New("protocol violation")

	// ErrServiceUnavailable is returned for 5xx responses.
	ErrServiceUnavailable = errors.New("service unavailable")
)

// APIError wraps a non-2xx response. Message carries the server-supplied
// human-readable text when the body had one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Unwrap maps status classes onto sentinels so callers can use errors.Is
// without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 401:
		return ErrUnauthorized
	case e.StatusCode >= 500:
		return ErrServiceUnavailable
	}
	return nil
}
