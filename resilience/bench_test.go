package resilience

import (
	"errors"
	"testing"
	"time"
)

// BenchmarkCircuitBreaker_Admit measures happy path admission.
func BenchmarkCircuitBreaker_Admit(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 100,
		RecoveryTimeout:  time.Minute,
	})
	now := time.Now()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Admit(now)
	}
}

// BenchmarkCircuitBreaker_RecordSuccess measures outcome recording overhead.
func BenchmarkCircuitBreaker_RecordSuccess(b *testing.B) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cb.RecordSuccess()
	}
}

// BenchmarkRetryPolicy_Decide measures the decision path for a transport failure.
func BenchmarkRetryPolicy_Decide(b *testing.B) {
	policy := NewRetryPolicy(RetryPolicyConfig{})
	outcome := TransportOutcome(errors.New("connection refused"))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = policy.Decide(outcome, 0, false)
	}
}

// BenchmarkRateLimiter_Allow measures token bucket overhead.
func BenchmarkRateLimiter_Allow(b *testing.B) {
	rl := NewRateLimiter(RateLimiterConfig{
		Rate:  1e9,
		Burst: 1 << 30,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = rl.Allow()
	}
}
