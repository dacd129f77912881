package stellar

import (
	"encoding/json"
	"fmt"
)

// TransportError wraps a network-level failure: DNS, connect, TLS, timeout.
// These are never the caller's fault and are eligible for retry.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("stellar: transport failure: %v", e.Err)
}

// Unwrap returns the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response from the server. Body holds the raw
// response payload.
type HTTPError struct {
	Status int
	Body   []byte
}

func (e *HTTPError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("stellar: server returned status %d: %s", e.Status, msg)
	}
	return fmt.Sprintf("stellar: server returned status %d", e.Status)
}

// Message extracts the server's error message from the body, or "" when the
// body carries none.
func (e *HTTPError) Message() string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(e.Body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
