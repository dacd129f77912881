package stellar

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/stellarhq/stellar-go/auth"
	"github.com/stellarhq/stellar-go/observe"
	"github.com/stellarhq/stellar-go/resilience"
	"github.com/stellarhq/stellar-go/transport"
)

// Version is the client library version, reported in the User-Agent header.
const Version = "1.0.0"

// Config configures the Stellar API client.
type Config struct {
	// BaseURL is the API root, e.g. "https://api.stellar.example/api/v1".
	// Required.
	BaseURL string

	// MaxAttempts is the attempt budget for retryable failures, including
	// the first attempt. Rate-limit waits do not count against it.
	// Default: 3
	MaxAttempts int

	// BaseDelay is the backoff before the first retry; each further retry
	// doubles it. Default: 1 second
	BaseDelay time.Duration

	// RateLimitFallback is the wait applied to a 429 response that carries
	// no Retry-After hint. Default: 60 seconds
	RateLimitFallback time.Duration

	// FailureThreshold is the number of consecutive failed logical calls
	// before the circuit opens. Default: 5
	FailureThreshold int

	// RecoveryTimeout is how long an open circuit rejects calls before
	// admitting a trial. Default: 60 seconds
	RecoveryTimeout time.Duration

	// RefreshLeadTime is how far before access token expiry a proactive
	// refresh is attempted. Default: 5 minutes
	RefreshLeadTime time.Duration

	// Timeout is the per-attempt HTTP timeout. Default: 30 seconds
	Timeout time.Duration

	// UserAgent overrides the User-Agent header.
	// Default: "stellar-go/<Version>"
	UserAgent string

	// DefaultHeaders are sent with every request. Authorization, Accept,
	// Content-Type, and User-Agent set by the client take precedence.
	DefaultHeaders map[string]string

	// Transport overrides the wire transport. If nil, an HTTP transport
	// with Timeout is used.
	Transport transport.Doer

	// Instruments supplies tracing, metrics, and logging. If nil, the
	// client records nothing.
	Instruments *observe.Instruments

	// RateLimit enables client-side outbound pacing. Nil disables it.
	RateLimit *resilience.RateLimiterConfig

	// MaxConcurrent caps the number of logical calls in flight at once.
	// Saturated callers queue up to Timeout for a slot, then fail with
	// resilience.ErrBulkheadFull. Zero disables the cap.
	MaxConcurrent int
}

// Client is a resilient Stellar API client. Every call runs through the same
// pipeline: proactive token refresh, circuit breaker admission, and a retry
// loop that cooperates with server throttling.
//
// A Client is safe for concurrent use. Token refresh is deduplicated across
// goroutines; at most one refresh request is in flight at a time.
type Client struct {
	config  Config
	baseURL string

	doer     transport.Doer
	tokens   *auth.TokenState
	breaker  *resilience.CircuitBreaker
	policy   *resilience.RetryPolicy
	limiter  *resilience.RateLimiter
	bulkhead *resilience.Bulkhead
	ins      *observe.Instruments

	refreshGroup singleflight.Group
}

// New creates a client.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("stellar: base URL is required")
	}

	// Apply defaults
	if config.RefreshLeadTime <= 0 {
		config.RefreshLeadTime = 5 * time.Minute
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "stellar-go/" + Version
	}

	ins := config.Instruments
	if ins == nil {
		ins = observe.NopInstruments()
	}

	breaker := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		FailureThreshold: config.FailureThreshold,
		RecoveryTimeout:  config.RecoveryTimeout,
		OnStateChange: func(from, to resilience.State) {
			ctx := context.Background()
			ins.Metrics.RecordBreakerTransition(ctx, from.String(), to.String())
			ins.Logger.Warn(ctx, "circuit breaker state changed",
				observe.Field{Key: "from", Value: from.String()},
				observe.Field{Key: "to", Value: to.String()},
			)
		},
	})

	policy := resilience.NewRetryPolicy(resilience.RetryPolicyConfig{
		MaxAttempts:       config.MaxAttempts,
		BaseDelay:         config.BaseDelay,
		RateLimitFallback: config.RateLimitFallback,
	})

	var limiter *resilience.RateLimiter
	if config.RateLimit != nil {
		limiter = resilience.NewRateLimiter(*config.RateLimit)
	}

	var bulkhead *resilience.Bulkhead
	if config.MaxConcurrent > 0 {
		bulkhead = resilience.NewBulkhead(resilience.BulkheadConfig{
			MaxConcurrent: config.MaxConcurrent,
			MaxWait:       config.Timeout,
		})
	}

	doer := config.Transport
	if doer == nil {
		doer = transport.NewHTTPTransport(transport.Config{Timeout: config.Timeout})
	}

	return &Client{
		config:   config,
		baseURL:  strings.TrimRight(config.BaseURL, "/"),
		doer:     doer,
		tokens:   auth.NewTokenState(),
		breaker:  breaker,
		policy:   policy,
		limiter:  limiter,
		bulkhead: bulkhead,
		ins:      ins,
	}, nil
}

// IsAuthenticated reports whether the client holds an access token.
func (c *Client) IsAuthenticated() bool {
	return c.tokens.IsAuthenticated()
}

// SetTokens installs credentials obtained out of band, such as tokens
// persisted from a previous session. expiresIn of zero infers the lifetime
// from the access token itself.
func (c *Client) SetTokens(access, refresh string, expiresIn time.Duration) {
	c.tokens.SetTokens(access, refresh, expiresIn)
}

// ClearTokens drops all held credentials without contacting the server.
func (c *Client) ClearTokens() {
	c.tokens.Clear()
}

// TokenExpiry returns the access token's expiry instant; zero when unknown.
func (c *Client) TokenExpiry() time.Time {
	return c.tokens.Expiry()
}

// BreakerState returns the circuit breaker's current state.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// ResetBreaker returns the circuit breaker to the closed state. Intended for
// operator intervention after a known-resolved outage.
func (c *Client) ResetBreaker() {
	c.breaker.Reset()
}
