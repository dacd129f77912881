// Package stellar is a resilient client for the Stellar API.
//
// Every call runs through one pipeline: proactive token refresh when the
// access token is near expiry, circuit breaker admission, then a retry loop
// that classifies each attempt and cooperates with server throttling.
//
// # Resilience behavior
//
//   - Transport failures and 5xx/4xx errors retry with exponential backoff
//     (1s, 2s, 4s by default) up to the attempt budget, then surface a
//     RetriesExhaustedError wrapping the last failure.
//   - 429 responses wait out the server's Retry-After hint (or a fallback)
//     and never consume attempt slots; throttling is cooperation, not
//     failure.
//   - A 401 on the first attempt triggers one token refresh per logical
//     call, then the original request is retried with the new token.
//   - Consecutive failed calls open a circuit breaker; while open, calls
//     fail fast with resilience.ErrCircuitOpen instead of hitting the wire.
//
// # Usage
//
//	client, err := stellar.New(stellar.Config{
//	    BaseURL: "https://api.stellar.example/api/v1",
//	})
//	if err != nil {
//	    return err
//	}
//
//	if _, err := client.Login(ctx, "ada", "correct horse", false); err != nil {
//	    return err
//	}
//
//	user, err := client.Profile(ctx)
//
// Token storage, refresh deduplication, and the Authorization header are
// handled internally; callers only see typed responses and errors.
package stellar
