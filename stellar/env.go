package stellar

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvBaseURL       = "STELLAR_BASE_URL"
	EnvTimeout       = "STELLAR_TIMEOUT"
	EnvMaxAttempts   = "STELLAR_MAX_ATTEMPTS"
	EnvMaxConcurrent = "STELLAR_MAX_CONCURRENT"
	EnvUserAgent     = "STELLAR_USER_AGENT"
	EnvHeaders       = "STELLAR_HEADERS"
)

// ConfigFromEnv builds a Config from STELLAR_* environment variables.
// Unset variables leave the corresponding field at its zero value, so New's
// defaults still apply. Values may reference other environment variables
// with ${VAR} syntax.
//
// STELLAR_TIMEOUT takes a Go duration ("10s"). STELLAR_HEADERS takes
// comma-separated Name=Value pairs.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		BaseURL:   expandEnv(os.Getenv(EnvBaseURL)),
		UserAgent: expandEnv(os.Getenv(EnvUserAgent)),
	}

	if raw := os.Getenv(EnvTimeout); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("stellar: invalid %s %q: %w", EnvTimeout, raw, err)
		}
		cfg.Timeout = timeout
	}

	if raw := os.Getenv(EnvMaxAttempts); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("stellar: invalid %s %q: %w", EnvMaxAttempts, raw, err)
		}
		cfg.MaxAttempts = n
	}

	if raw := os.Getenv(EnvMaxConcurrent); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("stellar: invalid %s %q: %w", EnvMaxConcurrent, raw, err)
		}
		cfg.MaxConcurrent = n
	}

	if raw := os.Getenv(EnvHeaders); raw != "" {
		headers, err := parseHeaderList(raw)
		if err != nil {
			return Config{}, err
		}
		cfg.DefaultHeaders = headers
	}

	return cfg, nil
}

// expandEnv substitutes ${VAR} references. Unset variables expand to "".
func expandEnv(value string) string {
	if !strings.Contains(value, "${") {
		return value
	}
	return os.Expand(value, os.Getenv)
}

// parseHeaderList parses "Name=Value,Name=Value" with ${VAR} expansion on
// the values.
func parseHeaderList(raw string) (map[string]string, error) {
	headers := make(map[string]string)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, found := strings.Cut(pair, "=")
		if !found || name == "" {
			return nil, fmt.Errorf("stellar: invalid header pair %q in %s", pair, EnvHeaders)
		}
		headers[strings.TrimSpace(name)] = expandEnv(strings.TrimSpace(value))
	}
	return headers, nil
}
