package auth

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiresIn is assumed when the server reports no token lifetime and
// none can be read from the token itself.
const DefaultExpiresIn = time.Hour

// TokenState holds the session's bearer credentials: the access token, the
// refresh token, and the absolute instant the access token goes stale.
//
// The zero value is an empty, unauthenticated state. All methods are safe
// for concurrent use; mutation is reserved to the owning session, and no
// lock is ever held across I/O.
type TokenState struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiry       time.Time
}

// NewTokenState creates an empty token state.
func NewTokenState() *TokenState {
	return &TokenState{}
}

// SetTokens stores credentials from a login or refresh response.
//
// An empty refresh token preserves the one already held; a refresh response
// rotates only the access token. When expiresIn is not positive the lifetime
// is read from the access token's exp claim if it is a JWT, falling back to
// DefaultExpiresIn.
func (s *TokenState) SetTokens(access, refresh string, expiresIn time.Duration) {
	expiry := time.Now().Add(expiresIn)
	if expiresIn <= 0 {
		if exp, ok := jwtExpiry(access); ok {
			expiry = exp
		} else {
			expiry = time.Now().Add(DefaultExpiresIn)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = access
	if refresh != "" {
		s.refreshToken = refresh
	}
	s.expiry = expiry
}

// Clear forgets all credentials. Calling it on an already-empty state is a
// no-op.
func (s *TokenState) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accessToken = ""
	s.refreshToken = ""
	s.expiry = time.Time{}
}

// NeedsProactiveRefresh reports whether the access token is within leadTime
// of its expiry at the given instant. It is false when no expiry is known.
func (s *TokenState) NeedsProactiveRefresh(now time.Time, leadTime time.Duration) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.expiry.IsZero() {
		return false
	}
	return !now.Before(s.expiry.Add(-leadTime))
}

// IsAuthenticated reports whether an access token is held.
func (s *TokenState) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken != ""
}

// AccessToken returns the current access token, or "" when unauthenticated.
func (s *TokenState) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// RefreshToken returns the current refresh token, or "" when none is held.
func (s *TokenState) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// Expiry returns the access token's expiry instant; zero when unknown.
func (s *TokenState) Expiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiry
}

// AuthorizationHeader returns the value for the Authorization header, or ""
// when unauthenticated.
func (s *TokenState) AuthorizationHeader() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.accessToken == "" {
		return ""
	}
	return "Bearer " + s.accessToken
}

// jwtExpiry reads the exp claim from a JWT access token without verifying
// its signature. Verification is the server's job; the client only needs the
// lifetime for proactive refresh scheduling.
func jwtExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
