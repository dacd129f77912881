package transport

import (
	"context"
	"net/http"
)

// Request carries everything a single transport attempt needs.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// Response is the raw result of one attempt. The caller classifies it;
// the transport never interprets status codes.
type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Doer is the send capability: one network round trip in, a raw response or
// a transport-level failure out. Implementations hold no retry, auth, or
// classification logic.
type Doer interface {
	Send(ctx context.Context, req *Request) (*Response, error)
}

// Interceptor is called with the prepared *http.Request before it is sent.
// Returning an error aborts the attempt.
type Interceptor func(ctx context.Context, req *http.Request) error
