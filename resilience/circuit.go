package resilience

import (
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means requests flow through normally.
	StateClosed State = iota
	// StateOpen means admission is rejected until the recovery timeout elapses.
	StateOpen
	// StateHalfOpen means the breaker is probing whether the service recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before opening.
	// Default: 5
	FailureThreshold int

	// RecoveryTimeout is how long the breaker stays open before allowing
	// a trial request.
	// Default: 60 seconds
	RecoveryTimeout time.Duration

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)
}

// CircuitBreaker tracks consecutive failures of logical calls and gates
// whether a new call may attempt the network at all.
//
// Admission and outcome recording are split so that callers never hold the
// breaker's lock across network I/O or backoff sleeps: Admit is consulted
// once when a logical call starts, and exactly one of RecordSuccess or
// RecordFailure is called when it finishes.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

// NewCircuitBreaker creates a new circuit breaker in the closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = 60 * time.Second
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Admit decides whether a logical call may proceed at the given instant.
//
// When open and the recovery timeout has not elapsed it returns
// ErrCircuitOpen without any attempt being made. When open and the timeout
// has elapsed it transitions to half-open and admits a trial call.
// Closed and half-open admit unconditionally.
func (cb *CircuitBreaker) Admit(now time.Time) error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if now.Sub(cb.openedAt) <= cb.config.RecoveryTimeout {
			return ErrCircuitOpen
		}
		cb.setStateLocked(StateHalfOpen)
	}

	return nil
}

// RecordSuccess records a successful logical call. A success while half-open
// closes the circuit; the consecutive failure count resets either way.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.setStateLocked(StateClosed)
	}
	cb.failures = 0
}

// RecordFailure records a failed logical call at the given instant.
//
// Reaching the failure threshold opens the circuit. A failure while
// half-open reopens it unconditionally rather than waiting for the count
// to reach the threshold again: the trial call failing is proof enough
// that the service has not recovered.
func (cb *CircuitBreaker) RecordFailure(now time.Time) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++

	if cb.state == StateHalfOpen || cb.failures >= cb.config.FailureThreshold {
		cb.openedAt = now
		cb.setStateLocked(StateOpen)
	}
}

// State returns the current circuit state. An elapsed recovery timeout is
// only observed by Admit; State reports the stored state without
// transitioning.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Reset returns the circuit breaker to the closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.setStateLocked(StateClosed)
	cb.failures = 0
}

// setStateLocked transitions to state and fires OnStateChange.
// Caller must hold mu.
func (cb *CircuitBreaker) setStateLocked(state State) {
	if cb.state == state {
		return
	}

	old := cb.state
	cb.state = state
	if state == StateClosed {
		cb.failures = 0
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(old, state)
	}
}

// Metrics returns current circuit breaker statistics.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:               cb.state,
		ConsecutiveFailures: cb.failures,
		OpenedAt:            cb.openedAt,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State               State
	ConsecutiveFailures int
	OpenedAt            time.Time
}
