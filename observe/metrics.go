package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records execution metrics for client calls.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCall records one finished logical call with its duration, the
	// number of transport attempts it consumed, and its error status.
	RecordCall(ctx context.Context, op string, duration time.Duration, attempts int, err error)

	// RecordWait records one retry or rate-limit wait within a logical call.
	// reason is "backoff" or "rate_limit".
	RecordWait(ctx context.Context, op, reason string, wait time.Duration)

	// RecordBreakerTransition records a circuit breaker state change.
	RecordBreakerTransition(ctx context.Context, from, to string)
}

// metricsImpl is the concrete implementation of Metrics.
type metricsImpl struct {
	meter        metric.Meter
	callCount    metric.Int64Counter
	errorCount   metric.Int64Counter
	attemptCount metric.Int64Counter
	waitCount    metric.Int64Counter
	durationHist metric.Float64Histogram
	breakerCount metric.Int64Counter
}

// newMetrics creates a new Metrics instance with the given meter.
func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	callCount, err := meter.Int64Counter(
		"stellar.client.calls",
		metric.WithDescription("Total number of logical API calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"stellar.client.errors",
		metric.WithDescription("Total number of failed logical API calls"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	attemptCount, err := meter.Int64Counter(
		"stellar.client.attempts",
		metric.WithDescription("Total number of transport attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	waitCount, err := meter.Int64Counter(
		"stellar.client.waits",
		metric.WithDescription("Total number of backoff and rate-limit waits"),
		metric.WithUnit("{wait}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"stellar.client.duration_ms",
		metric.WithDescription("Logical call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	breakerCount, err := meter.Int64Counter(
		"stellar.client.breaker_transitions",
		metric.WithDescription("Circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:        meter,
		callCount:    callCount,
		errorCount:   errorCount,
		attemptCount: attemptCount,
		waitCount:    waitCount,
		durationHist: durationHist,
		breakerCount: breakerCount,
	}, nil
}

// RecordCall records metrics for one finished logical call.
func (m *metricsImpl) RecordCall(ctx context.Context, op string, duration time.Duration, attempts int, err error) {
	opt := metric.WithAttributes(attribute.String("op", op))

	m.callCount.Add(ctx, 1, opt)
	m.attemptCount.Add(ctx, int64(attempts), opt)

	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}

	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordWait records one wait inside the retry loop.
func (m *metricsImpl) RecordWait(ctx context.Context, op, reason string, _ time.Duration) {
	m.waitCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("reason", reason),
	))
}

// RecordBreakerTransition records a circuit state change.
func (m *metricsImpl) RecordBreakerTransition(ctx context.Context, from, to string) {
	m.breakerCount.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (m *noopMetrics) RecordCall(ctx context.Context, op string, duration time.Duration, attempts int, err error) {
}
func (m *noopMetrics) RecordWait(ctx context.Context, op, reason string, wait time.Duration) {}
func (m *noopMetrics) RecordBreakerTransition(ctx context.Context, from, to string)          {}
