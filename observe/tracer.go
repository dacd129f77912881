package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps OpenTelemetry tracing with request-scoped span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndRequest must be best-effort and must not panic.
type Tracer interface {
	// StartRequest starts a span covering one logical API call.
	StartRequest(ctx context.Context, op, method, path string) (context.Context, trace.Span)

	// EndRequest ends the span, recording any error.
	EndRequest(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartRequest starts a span named stellar.request.<op> with HTTP attributes.
func (t *tracerImpl) StartRequest(ctx context.Context, op, method, path string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("stellar.op", op),
		attribute.String("http.request.method", method),
		attribute.String("url.path", path),
	}

	return t.tracer.Start(ctx, "stellar.request."+op,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

// EndRequest ends the span and records the error status if present.
func (t *tracerImpl) EndRequest(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartRequest(ctx context.Context, op, _, _ string) (context.Context, trace.Span) {
	return t.noop.Start(ctx, "stellar.request."+op)
}

func (t *noopTracer) EndRequest(span trace.Span, err error) {
	span.End()
}
