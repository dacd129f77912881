package observe

import (
	"context"
	"testing"
	"time"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "missing service name",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "minimal valid",
			cfg:  Config{ServiceName: "stellar-client"},
		},
		{
			name: "unknown tracing exporter",
			cfg: Config{
				ServiceName: "stellar-client",
				Tracing:     TracingConfig{Enabled: true, Exporter: "carrier-pigeon"},
			},
			wantErr: true,
		},
		{
			name: "sample pct out of range",
			cfg: Config{
				ServiceName: "stellar-client",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.5},
			},
			wantErr: true,
		},
		{
			name: "unknown metrics exporter",
			cfg: Config{
				ServiceName: "stellar-client",
				Metrics:     MetricsConfig{Enabled: true, Exporter: "push-gateway"},
			},
			wantErr: true,
		},
		{
			name: "unknown log level",
			cfg: Config{
				ServiceName: "stellar-client",
				Logging:     LoggingConfig{Enabled: true, Level: "loud"},
			},
			wantErr: true,
		},
		{
			name: "full valid",
			cfg: Config{
				ServiceName: "stellar-client",
				Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 0.5},
				Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
				Logging:     LoggingConfig{Enabled: true, Level: "info"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewObserver_Disabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "stellar-client"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	if obs.Tracer() == nil {
		t.Error("Tracer() should never be nil")
	}
	if obs.Meter() == nil {
		t.Error("Meter() should never be nil")
	}
	if obs.Logger() == nil {
		t.Error("Logger() should never be nil")
	}

	if err := obs.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewObserver_Enabled(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{
		ServiceName: "stellar-client",
		Tracing:     TracingConfig{Enabled: true, Exporter: "none", SamplePct: 1.0},
		Metrics:     MetricsConfig{Enabled: true, Exporter: "none"},
		Logging:     LoggingConfig{Enabled: true, Level: "error"},
	})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := obs.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewInstruments(t *testing.T) {
	obs, err := NewObserver(context.Background(), Config{ServiceName: "stellar-client"})
	if err != nil {
		t.Fatalf("NewObserver() error = %v", err)
	}

	ins, err := NewInstruments(obs)
	if err != nil {
		t.Fatalf("NewInstruments() error = %v", err)
	}

	ctx := context.Background()

	// Exercise every instrument; noop providers must accept all of it.
	spanCtx, span := ins.Tracer.StartRequest(ctx, "login", "POST", "/auth/login")
	if spanCtx == nil {
		t.Error("StartRequest returned nil context")
	}
	ins.Tracer.EndRequest(span, nil)

	ins.Metrics.RecordCall(ctx, "login", 120*time.Millisecond, 1, nil)
	ins.Metrics.RecordWait(ctx, "login", "backoff", time.Second)
	ins.Metrics.RecordBreakerTransition(ctx, "closed", "open")
}

func TestNopInstruments(t *testing.T) {
	ins := NopInstruments()

	ctx := context.Background()
	_, span := ins.Tracer.StartRequest(ctx, "health", "GET", "/health")
	ins.Tracer.EndRequest(span, context.DeadlineExceeded)
	ins.Metrics.RecordCall(ctx, "health", 0, 1, nil)
	ins.Logger.Info(ctx, "nothing to see")
}
