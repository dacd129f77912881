// Package resilience provides the failure-handling building blocks for the
// Stellar API client.
//
// The package implements the decision logic that turns one logical API call
// into a governed sequence of transport attempts. It deliberately contains
// no I/O: the client's executor drives the network and feeds classified
// attempt outcomes back into these components.
//
// # Components
//
//   - Circuit Breaker: counts consecutive failed logical calls and rejects
//     admission outright once a threshold is reached, with a timed
//     half-open probe for recovery.
//
//   - Retry Policy: maps an attempt outcome (success, rate-limited,
//     unauthorized, transport failure, HTTP error) to the next action:
//     return, wait-and-retry, refresh-then-retry, or fail. Rate-limit waits
//     never consume the attempt budget.
//
//   - Rate Limiter: token-bucket pacing for outbound requests.
//
//   - Bulkhead: a semaphore cap on logical calls in flight, so a slow
//     server cannot pile up unbounded concurrent requests.
//
// # Usage
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 5,
//	    RecoveryTimeout:  time.Minute,
//	})
//
//	policy := resilience.NewRetryPolicy(resilience.RetryPolicyConfig{
//	    MaxAttempts: 3,
//	    BaseDelay:   time.Second,
//	})
//
//	if err := cb.Admit(time.Now()); err != nil {
//	    return err // circuit open, no attempt made
//	}
//
//	outcome := resilience.TransportOutcome(sendErr)
//	switch d := policy.Decide(outcome, attempt, canRefresh); d.Kind {
//	case resilience.DecisionRetry:
//	    time.Sleep(d.Wait)
//	case resilience.DecisionFail:
//	    cb.RecordFailure(time.Now())
//	    return d.Err
//	}
package resilience
