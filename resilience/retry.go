package resilience

import (
	"math"
	"time"
)

// OutcomeKind classifies the result of a single transport attempt.
type OutcomeKind int

const (
	// OutcomeSuccess is a 2xx response.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeRateLimited is a 429 response with an optional Retry-After hint.
	OutcomeRateLimited
	// OutcomeUnauthorized is a 401 response.
	OutcomeUnauthorized
	// OutcomeTransportFailure is a network-level failure (DNS, connect, timeout).
	OutcomeTransportFailure
	// OutcomeHTTPError is any other >=400 response.
	OutcomeHTTPError
)

// Outcome is the classified result of one attempt. Err carries the typed
// error the caller would receive if this outcome turns out to be terminal;
// it is unset for success and rate-limited outcomes, which are never
// surfaced as errors.
type Outcome struct {
	Kind       OutcomeKind
	Status     int
	RetryAfter time.Duration
	Err        error
}

// SuccessOutcome classifies a 2xx response.
func SuccessOutcome(status int) Outcome {
	return Outcome{Kind: OutcomeSuccess, Status: status}
}

// RateLimitedOutcome classifies a 429 response. A zero retryAfter means the
// server provided no hint and the policy's fallback wait applies.
func RateLimitedOutcome(retryAfter time.Duration) Outcome {
	return Outcome{Kind: OutcomeRateLimited, Status: 429, RetryAfter: retryAfter}
}

// UnauthorizedOutcome classifies a 401 response.
func UnauthorizedOutcome(err error) Outcome {
	return Outcome{Kind: OutcomeUnauthorized, Status: 401, Err: err}
}

// TransportOutcome classifies a network-level failure.
func TransportOutcome(err error) Outcome {
	return Outcome{Kind: OutcomeTransportFailure, Err: err}
}

// HTTPOutcome classifies a non-401, non-429 error response.
func HTTPOutcome(status int, err error) Outcome {
	return Outcome{Kind: OutcomeHTTPError, Status: status, Err: err}
}

// DecisionKind is what the policy tells the executor to do next.
type DecisionKind int

const (
	// DecisionReturn means the attempt succeeded; stop and return the body.
	DecisionReturn DecisionKind = iota
	// DecisionRetry means wait and run another attempt.
	DecisionRetry
	// DecisionRefresh means refresh the access token, then retry.
	DecisionRefresh
	// DecisionFail means stop and surface Err to the caller.
	DecisionFail
)

// Decision is the policy's verdict for one attempt outcome.
type Decision struct {
	Kind DecisionKind

	// Wait is how long to sleep before the next attempt (DecisionRetry).
	Wait time.Duration

	// ConsumeAttempt reports whether the retry counts against MaxAttempts.
	// Rate-limit waits do not: throttling is cooperation, not failure.
	ConsumeAttempt bool

	// Err is the terminal error (DecisionFail).
	Err error
}

// RetryPolicyConfig configures the retry policy.
type RetryPolicyConfig struct {
	// MaxAttempts is the maximum number of attempts (including the first)
	// for retryable failures. Default: 3
	MaxAttempts int

	// BaseDelay is the backoff before the first retry.
	// Default: 1 second
	BaseDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	// Default: 2.0
	Multiplier float64

	// RateLimitFallback is the wait applied to a 429 response that carries
	// no Retry-After hint. Default: 60 seconds
	RateLimitFallback time.Duration
}

// RetryPolicy decides, for each attempt outcome, whether to retry, how long
// to wait first, and whether a token refresh should happen before retrying.
//
// The policy is stateless; the executor owns the attempt counter and the
// refreshed-once flag for a logical call.
type RetryPolicy struct {
	config RetryPolicyConfig
}

// NewRetryPolicy creates a new retry policy.
func NewRetryPolicy(config RetryPolicyConfig) *RetryPolicy {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = time.Second
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.RateLimitFallback <= 0 {
		config.RateLimitFallback = 60 * time.Second
	}

	return &RetryPolicy{config: config}
}

// Decide maps an attempt outcome to the next action. attempt is 0-based and
// counts only attempts that consumed a slot. canRefresh reports whether a
// refresh token is available and the logical call has not refreshed yet.
func (p *RetryPolicy) Decide(outcome Outcome, attempt int, canRefresh bool) Decision {
	switch outcome.Kind {
	case OutcomeSuccess:
		return Decision{Kind: DecisionReturn}

	case OutcomeRateLimited:
		wait := outcome.RetryAfter
		if wait <= 0 {
			wait = p.config.RateLimitFallback
		}
		return Decision{Kind: DecisionRetry, Wait: wait}

	case OutcomeUnauthorized:
		// Reactive refresh happens at most once per logical call, and only
		// when the very first attempt came back 401. Later 401s fall through
		// to the generic retry rule.
		if attempt == 0 && canRefresh {
			return Decision{Kind: DecisionRefresh}
		}
	}

	// Transport failures and error statuses share the generic rule:
	// exponential backoff until the attempt budget is spent.
	if attempt < p.config.MaxAttempts-1 {
		return Decision{
			Kind:           DecisionRetry,
			Wait:           p.backoff(attempt),
			ConsumeAttempt: true,
		}
	}

	return Decision{
		Kind: DecisionFail,
		Err: &RetriesExhaustedError{
			Attempts: p.config.MaxAttempts,
			LastErr:  outcome.Err,
		},
	}
}

// backoff returns BaseDelay * Multiplier^attempt: 1s, 2s, 4s, ... with the
// defaults.
func (p *RetryPolicy) backoff(attempt int) time.Duration {
	multiplier := math.Pow(p.config.Multiplier, float64(attempt))
	return time.Duration(float64(p.config.BaseDelay) * multiplier)
}

// Config returns the retry policy configuration.
func (p *RetryPolicy) Config() RetryPolicyConfig {
	return p.config
}
