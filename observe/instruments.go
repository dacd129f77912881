package observe

// Instruments bundles the telemetry primitives the client's request pipeline
// consumes: a span per logical call, pipeline metrics, and a structured
// logger.
//
// Contract:
//   - Concurrency: all members are safe for concurrent use.
//   - Ownership: callers hand one Instruments to one client; the client
//     never mutates it.
type Instruments struct {
	Tracer  Tracer
	Metrics Metrics
	Logger  Logger
}

// NewInstruments creates Instruments from an Observer.
func NewInstruments(obs Observer) (*Instruments, error) {
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return &Instruments{
		Tracer:  newTracer(obs.Tracer()),
		Metrics: metrics,
		Logger:  obs.Logger(),
	}, nil
}

// NopInstruments returns Instruments that record nothing. It is the default
// for clients constructed without telemetry.
func NopInstruments() *Instruments {
	return &Instruments{
		Tracer:  newNoopTracer(),
		Metrics: &noopMetrics{},
		Logger:  &noopLogger{},
	}
}
