package auth

import "errors"

// Sentinel errors for credential handling.
var (
	// ErrNoRefreshToken is returned when a token refresh is required but no
	// refresh token is held. The logical call fails without retrying.
	ErrNoRefreshToken = errors.New("auth: no refresh token available")
)
