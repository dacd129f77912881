package stellar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/stellarhq/stellar-go/resilience"
	"github.com/stellarhq/stellar-go/transport"
)

// classify maps one transport attempt to a retry policy outcome.
func classify(resp *transport.Response, err error) resilience.Outcome {
	if err != nil {
		return resilience.TransportOutcome(&TransportError{Err: err})
	}

	switch {
	case resp.Status == http.StatusTooManyRequests:
		return resilience.RateLimitedOutcome(retryAfter(resp.Headers, time.Now()))

	case resp.Status == http.StatusUnauthorized:
		return resilience.UnauthorizedOutcome(&HTTPError{Status: resp.Status, Body: resp.Body})

	case resp.Status >= 400:
		return resilience.HTTPOutcome(resp.Status, &HTTPError{Status: resp.Status, Body: resp.Body})

	default:
		return resilience.SuccessOutcome(resp.Status)
	}
}

// retryAfter parses the Retry-After header, which may be a delay in seconds
// or an HTTP date. Zero means no usable hint.
func retryAfter(headers http.Header, now time.Time) time.Duration {
	value := headers.Get("Retry-After")
	if value == "" {
		return 0
	}

	if secs, err := strconv.Atoi(value); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}

	if at, err := http.ParseTime(value); err == nil {
		if wait := at.Sub(now); wait > 0 {
			return wait
		}
	}

	return 0
}
