package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for caller-checkable conditions.
var (
	// ErrUnavailable wraps transport failures: the request never completed.
	ErrUnavailable = errors.New("api: backend unavailable")
	// ErrMalformedResponse wraps 2xx responses whose body could not be decoded.
	ErrMalformedResponse = errors.New("api: malformed response")
)

// FallbackMessage is shown when the backend rejects a request without a message.
const FallbackMessage = "An error occurred"

// Error is a non-2xx response from the backend.
type Error struct {
	Method  string
	Path    string
	Status  int
	Message string // Backend-provided message; empty when absent.
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// UserMessage returns the backend message, or FallbackMessage when there is none.
func (e *Error) UserMessage() string {
	if e.Message == "" {
		return FallbackMessage
	}
	return e.Message
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	e, ok := AsError(err)
	return ok && e.Status == http.StatusNotFound
}
