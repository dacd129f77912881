package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenState_Empty(t *testing.T) {
	s := NewTokenState()

	if s.IsAuthenticated() {
		t.Error("Empty state should not be authenticated")
	}
	if s.AuthorizationHeader() != "" {
		t.Errorf("AuthorizationHeader() = %q, want empty", s.AuthorizationHeader())
	}
	if s.NeedsProactiveRefresh(time.Now(), 5*time.Minute) {
		t.Error("Empty state should not need refresh")
	}
}

func TestTokenState_SetTokens(t *testing.T) {
	s := NewTokenState()
	s.SetTokens("access-1", "refresh-1", time.Hour)

	if !s.IsAuthenticated() {
		t.Error("State should be authenticated after SetTokens")
	}
	if got := s.AccessToken(); got != "access-1" {
		t.Errorf("AccessToken() = %q, want access-1", got)
	}
	if got := s.RefreshToken(); got != "refresh-1" {
		t.Errorf("RefreshToken() = %q, want refresh-1", got)
	}
	if got := s.AuthorizationHeader(); got != "Bearer access-1" {
		t.Errorf("AuthorizationHeader() = %q, want Bearer access-1", got)
	}

	wantExpiry := time.Now().Add(time.Hour)
	if diff := s.Expiry().Sub(wantExpiry); diff < -time.Second || diff > time.Second {
		t.Errorf("Expiry() = %v, want about %v", s.Expiry(), wantExpiry)
	}
}

func TestTokenState_SetTokens_DefaultLifetime(t *testing.T) {
	s := NewTokenState()
	s.SetTokens("opaque-token", "refresh-1", 0)

	wantExpiry := time.Now().Add(DefaultExpiresIn)
	if diff := s.Expiry().Sub(wantExpiry); diff < -time.Second || diff > time.Second {
		t.Errorf("Expiry() = %v, want about %v", s.Expiry(), wantExpiry)
	}
}

func TestTokenState_SetTokens_JWTExpiry(t *testing.T) {
	exp := time.Now().Add(42 * time.Minute).Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	s := NewTokenState()
	s.SetTokens(signed, "refresh-1", 0)

	if !s.Expiry().Equal(exp) {
		t.Errorf("Expiry() = %v, want %v from exp claim", s.Expiry(), exp)
	}
}

func TestTokenState_SetTokens_ExplicitLifetimeWinsOverJWT(t *testing.T) {
	exp := time.Now().Add(10 * time.Minute)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	s := NewTokenState()
	s.SetTokens(signed, "", 2*time.Hour)

	wantExpiry := time.Now().Add(2 * time.Hour)
	if diff := s.Expiry().Sub(wantExpiry); diff < -time.Second || diff > time.Second {
		t.Errorf("Expiry() = %v, want about %v", s.Expiry(), wantExpiry)
	}
}

func TestTokenState_SetTokens_PreservesRefreshToken(t *testing.T) {
	s := NewTokenState()
	s.SetTokens("access-1", "refresh-1", time.Hour)

	// A refresh response rotates only the access token
	s.SetTokens("access-2", "", time.Hour)

	if got := s.AccessToken(); got != "access-2" {
		t.Errorf("AccessToken() = %q, want access-2", got)
	}
	if got := s.RefreshToken(); got != "refresh-1" {
		t.Errorf("RefreshToken() = %q, want refresh-1", got)
	}
}

func TestTokenState_Clear(t *testing.T) {
	s := NewTokenState()
	s.SetTokens("access-1", "refresh-1", time.Hour)

	s.Clear()

	if s.IsAuthenticated() {
		t.Error("State should not be authenticated after Clear")
	}
	if s.RefreshToken() != "" {
		t.Error("RefreshToken should be empty after Clear")
	}
	if !s.Expiry().IsZero() {
		t.Error("Expiry should be zero after Clear")
	}
}

func TestTokenState_Clear_Idempotent(t *testing.T) {
	s := NewTokenState()
	s.SetTokens("access-1", "refresh-1", time.Hour)

	s.Clear()
	s.Clear()

	if s.IsAuthenticated() || s.RefreshToken() != "" || !s.Expiry().IsZero() {
		t.Error("Double Clear should leave the same empty state as one")
	}
}

func TestTokenState_NeedsProactiveRefresh(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresIn time.Duration
		leadTime  time.Duration
		want      bool
	}{
		{"expiry inside lead time", 4 * time.Minute, 5 * time.Minute, true},
		{"expiry beyond lead time", 10 * time.Minute, 5 * time.Minute, false},
		{"already expired", -time.Minute, 5 * time.Minute, true},
		{"exactly at threshold", 5 * time.Minute, 5 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewTokenState()
			s.SetTokens("access-1", "refresh-1", tt.expiresIn)

			if got := s.NeedsProactiveRefresh(now, tt.leadTime); got != tt.want {
				t.Errorf("NeedsProactiveRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenState_ConcurrentAccess(t *testing.T) {
	s := NewTokenState()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetTokens("access", "refresh", time.Hour)
		}()
		go func() {
			defer wg.Done()
			_ = s.IsAuthenticated()
			_ = s.AuthorizationHeader()
			_ = s.NeedsProactiveRefresh(time.Now(), 5*time.Minute)
		}()
	}
	wg.Wait()
}
