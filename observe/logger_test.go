package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func parseEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("Invalid log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("warn", &buf)
	ctx := context.Background()

	logger.Debug(ctx, "debug msg")
	logger.Info(ctx, "info msg")
	logger.Warn(ctx, "warn msg")
	logger.Error(ctx, "error msg")

	entries := parseEntries(t, &buf)
	if len(entries) != 2 {
		t.Fatalf("Got %d entries, want 2 (warn and error)", len(entries))
	}
	if entries[0]["level"] != "warn" || entries[1]["level"] != "error" {
		t.Errorf("Levels = %v, %v; want warn, error", entries[0]["level"], entries[1]["level"])
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "retrying request",
		Field{Key: "attempt", Value: 2},
		Field{Key: "wait_ms", Value: 2000},
	)

	entries := parseEntries(t, &buf)
	if len(entries) != 1 {
		t.Fatalf("Got %d entries, want 1", len(entries))
	}

	entry := entries[0]
	if entry["msg"] != "retrying request" {
		t.Errorf("msg = %v, want retrying request", entry["msg"])
	}
	if entry["attempt"] != float64(2) {
		t.Errorf("attempt = %v, want 2", entry["attempt"])
	}
	if entry["timestamp"] == nil {
		t.Error("Entry missing timestamp")
	}
}

func TestLogger_RedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "tokens stored",
		Field{Key: "accessToken", Value: "super-secret"},
		Field{Key: "refreshToken", Value: "also-secret"},
		Field{Key: "password", Value: "hunter2"},
		Field{Key: "op", Value: "login"},
	)

	out := buf.String()
	for _, secret := range []string{"super-secret", "also-secret", "hunter2"} {
		if strings.Contains(out, secret) {
			t.Errorf("Log output leaked %q", secret)
		}
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Error("Log output missing redaction marker")
	}
	if !strings.Contains(out, "login") {
		t.Error("Non-credential field should pass through")
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	opLogger := logger.With(Field{Key: "op", Value: "profile"})
	opLogger.Info(context.Background(), "call finished")

	entries := parseEntries(t, &buf)
	if entries[0]["op"] != "profile" {
		t.Errorf("op = %v, want profile", entries[0]["op"])
	}
}

func TestLogger_WithRedactsCredentials(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("info", &buf)

	logger.With(Field{Key: "token", Value: "leaky"}).Info(context.Background(), "bound")

	if strings.Contains(buf.String(), "leaky") {
		t.Error("With() leaked a credential field")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLogLevel(tt.input); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()

	// Must not panic and With must keep returning a usable logger
	logger.With(Field{Key: "op", Value: "x"}).Info(context.Background(), "dropped")
}
