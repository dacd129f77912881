package resilience

import (
	"errors"
	"fmt"
)

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects admission.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")

	// ErrRateLimitExceeded is returned when the outbound rate limiter cannot
	// grant a slot within its wait budget.
	ErrRateLimitExceeded = errors.New("resilience: rate limit exceeded")

	// ErrBulkheadFull is returned when the concurrency bulkhead cannot grant
	// a slot within its wait budget.
	ErrBulkheadFull = errors.New("resilience: bulkhead is full")
)

// RetriesExhaustedError is returned when a logical call spends its full
// attempt budget without a successful response. LastErr is the failure of
// the final attempt.
type RetriesExhaustedError struct {
	Attempts int
	LastErr  error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("resilience: request failed after %d attempts: %v", e.Attempts, e.LastErr)
}

// Unwrap returns the final attempt's error.
func (e *RetriesExhaustedError) Unwrap() error {
	return e.LastErr
}
