package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config configures the HTTP transport.
type Config struct {
	// Timeout is the per-attempt HTTP timeout.
	// Default: 30 seconds
	Timeout time.Duration

	// DefaultHeaders are applied to every request before per-request headers.
	DefaultHeaders map[string]string

	// Interceptors run in order against the prepared request.
	Interceptors []Interceptor

	// HTTPClient overrides the underlying client. If nil, a client with
	// Timeout is used.
	HTTPClient *http.Client
}

// HTTPTransport implements Doer over net/http.
type HTTPTransport struct {
	config Config
	client *http.Client
}

// NewHTTPTransport creates an HTTP transport.
func NewHTTPTransport(config Config) *HTTPTransport {
	// Apply defaults
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &HTTPTransport{
		config: config,
		client: client,
	}
}

// Send performs one round trip. The response body is fully read and the
// connection released before returning; any network-level failure comes back
// as an error with a nil response.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range t.config.DefaultHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	for _, intercept := range t.config.Interceptors {
		if err := intercept(ctx, httpReq); err != nil {
			return nil, fmt.Errorf("intercept request: %w", err)
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Body:    respBody,
	}, nil
}

// Ensure HTTPTransport implements Doer
var _ Doer = (*HTTPTransport)(nil)
