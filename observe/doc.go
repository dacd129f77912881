// Package observe provides telemetry for the Stellar API client: OpenTelemetry
// tracing and metrics plus a credential-redacting structured logger.
//
// The Observer owns provider lifecycles (construction and Shutdown); the
// Instruments bundle is what the client's request pipeline actually consumes.
// A client built without an Observer runs on NopInstruments and records
// nothing.
//
// # Usage
//
//	obs, err := observe.NewObserver(ctx, observe.Config{
//	    ServiceName: "my-service",
//	    Tracing:     observe.TracingConfig{Enabled: true, Exporter: "otlp", SamplePct: 0.1},
//	    Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
//	    Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
//	})
//	if err != nil {
//	    return err
//	}
//	defer obs.Shutdown(ctx)
//
//	ins, err := observe.NewInstruments(obs)
//
// Every logical client call produces one span (stellar.request.<op>), one
// stellar.client.calls increment, and a duration sample; retries and
// rate-limit waits count separately so throttling is visible without being
// an error.
package observe
