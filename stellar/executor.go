package stellar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/stellarhq/stellar-go/auth"
	"github.com/stellarhq/stellar-go/observe"
	"github.com/stellarhq/stellar-go/resilience"
	"github.com/stellarhq/stellar-go/transport"
)

// callOpts tunes the pipeline for one logical call.
type callOpts struct {
	// skipAuth disables proactive and reactive token refresh. Set for the
	// auth endpoints themselves: a refresh triggering another refresh would
	// recurse.
	skipAuth bool

	// internal marks a call the pipeline issues on its own behalf, such as
	// a token refresh nested inside a user call. Internal calls bypass the
	// bulkhead; the outer call already holds or is about to hold a slot,
	// and nesting a second acquire could deadlock at full saturation.
	internal bool

	// contentType overrides the Content-Type header for the request body.
	// Empty means application/json.
	contentType string
}

// execute runs one logical call through the full pipeline.
func (c *Client) execute(ctx context.Context, op, method, path string, payload any) (json.RawMessage, error) {
	return c.executeWith(ctx, op, method, path, payload, callOpts{})
}

func (c *Client) executeWith(ctx context.Context, op, method, path string, payload any, opts callOpts) (json.RawMessage, error) {
	ctx, span := c.ins.Tracer.StartRequest(ctx, op, method, path)
	start := time.Now()

	body, attempts, err := c.run(ctx, op, method, path, payload, opts)

	c.ins.Tracer.EndRequest(span, err)
	c.ins.Metrics.RecordCall(ctx, op, time.Since(start), attempts, err)

	if err != nil {
		c.ins.Logger.Error(ctx, "call failed",
			observe.Field{Key: "op", Value: op},
			observe.Field{Key: "attempts", Value: attempts},
			observe.Field{Key: "error", Value: err.Error()},
		)
	} else {
		c.ins.Logger.Debug(ctx, "call finished",
			observe.Field{Key: "op", Value: op},
			observe.Field{Key: "attempts", Value: attempts},
		)
	}

	return body, err
}

// run is the attempt loop. It returns the response body, the number of
// transport attempts performed, and the terminal error if any.
func (c *Client) run(ctx context.Context, op, method, path string, payload any, opts callOpts) (json.RawMessage, int, error) {
	// A []byte payload is sent as-is (multipart uploads); anything else is
	// JSON-encoded.
	var body []byte
	switch p := payload.(type) {
	case nil:
	case []byte:
		body = p
	default:
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("stellar: encode request: %w", err)
		}
		body = encoded
	}

	// Proactive refresh is best-effort: a stale token that cannot be
	// renewed still gets its chance on the wire, where a 401 triggers the
	// reactive path.
	if !opts.skipAuth && c.tokens.RefreshToken() != "" &&
		c.tokens.NeedsProactiveRefresh(time.Now(), c.config.RefreshLeadTime) {
		if err := c.refresh(ctx); err != nil {
			c.ins.Logger.Warn(ctx, "proactive token refresh failed",
				observe.Field{Key: "op", Value: op},
				observe.Field{Key: "error", Value: err.Error()},
			)
		}
	}

	if err := c.breaker.Admit(time.Now()); err != nil {
		return nil, 0, err
	}

	if c.bulkhead != nil && !opts.internal {
		if err := c.bulkhead.Acquire(ctx); err != nil {
			return nil, 0, err
		}
		defer c.bulkhead.Release()
	}

	url := c.baseURL + path
	attempt := 0
	attempts := 0
	refreshed := false

	for {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				// Local pacing denial. The server was never asked, so
				// the breaker does not hear about it.
				return nil, attempts, err
			}
		}

		// Headers are rebuilt each attempt; a refresh between attempts
		// rotates the Authorization value.
		attempts++
		resp, sendErr := c.doer.Send(ctx, &transport.Request{
			Method:  method,
			URL:     url,
			Headers: c.headers(len(body) > 0, opts.contentType),
			Body:    body,
		})

		outcome := classify(resp, sendErr)
		if outcome.Kind == resilience.OutcomeSuccess {
			c.breaker.RecordSuccess()
			return resp.Body, attempts, nil
		}

		canRefresh := !opts.skipAuth && !refreshed && c.tokens.RefreshToken() != ""
		decision := c.policy.Decide(outcome, attempt, canRefresh)

		switch decision.Kind {
		case resilience.DecisionRefresh:
			refreshed = true
			if err := c.refresh(ctx); err != nil {
				c.breaker.RecordFailure(time.Now())
				return nil, attempts, err
			}
			attempt++
			continue

		case resilience.DecisionRetry:
			reason := "backoff"
			if outcome.Kind == resilience.OutcomeRateLimited {
				reason = "rate_limit"
			}
			c.ins.Metrics.RecordWait(ctx, op, reason, decision.Wait)
			c.ins.Logger.Debug(ctx, "waiting before retry",
				observe.Field{Key: "op", Value: op},
				observe.Field{Key: "reason", Value: reason},
				observe.Field{Key: "wait_ms", Value: decision.Wait.Milliseconds()},
				observe.Field{Key: "attempt", Value: attempt},
			)
			if decision.ConsumeAttempt {
				attempt++
			}
			if err := sleep(ctx, decision.Wait); err != nil {
				return nil, attempts, err
			}
			continue

		default: // DecisionFail
			c.breaker.RecordFailure(time.Now())
			return nil, attempts, decision.Err
		}
	}
}

// headers builds the header set for one attempt.
func (c *Client) headers(hasBody bool, contentType string) map[string]string {
	h := make(map[string]string, len(c.config.DefaultHeaders)+4)
	for k, v := range c.config.DefaultHeaders {
		h[k] = v
	}
	h["Accept"] = "application/json"
	h["User-Agent"] = c.config.UserAgent
	if hasBody {
		if contentType == "" {
			contentType = "application/json"
		}
		h["Content-Type"] = contentType
	}
	if value := c.tokens.AuthorizationHeader(); value != "" {
		h["Authorization"] = value
	}
	return h
}

// refresh exchanges the refresh token for a new access token. Concurrent
// callers share one in-flight refresh request.
func (c *Client) refresh(ctx context.Context) error {
	_, err := c.refreshShared(ctx)
	return err
}

func (c *Client) refreshShared(ctx context.Context) (*AuthResponse, error) {
	v, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		refreshToken := c.tokens.RefreshToken()
		if refreshToken == "" {
			return nil, auth.ErrNoRefreshToken
		}

		raw, err := c.executeWith(ctx, "refresh", http.MethodPost, "/auth/refresh",
			map[string]string{"refreshToken": refreshToken}, callOpts{skipAuth: true, internal: true})
		if err != nil {
			return nil, fmt.Errorf("stellar: token refresh failed: %w", err)
		}

		parsed, err := decode[AuthResponse](raw)
		if err != nil {
			return nil, err
		}
		if parsed.Tokens == nil || parsed.Tokens.AccessToken == "" {
			return nil, errors.New("stellar: refresh response carried no access token")
		}

		c.storeTokens(parsed.Tokens)
		return parsed, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*AuthResponse), nil
}

// storeTokens installs a token pair from an auth response.
func (c *Client) storeTokens(t *Tokens) {
	if t == nil || t.AccessToken == "" {
		return
	}
	c.tokens.SetTokens(t.AccessToken, t.RefreshToken, time.Duration(t.ExpiresIn)*time.Second)
}

// decode unmarshals a response body into T.
func decode[T any](raw json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("stellar: decode response: %w", err)
	}
	return &v, nil
}

// sleep blocks for d or until the context is done.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
