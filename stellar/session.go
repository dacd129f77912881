package stellar

import (
	"context"
	"net/http"
	"net/url"
)

// Register creates a new account. Tokens returned by the server are stored,
// leaving the client authenticated as the new user.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	raw, err := c.executeWith(ctx, "register", http.MethodPost, "/auth/register", req, callOpts{skipAuth: true})
	if err != nil {
		return nil, err
	}

	resp, err := decode[AuthResponse](raw)
	if err != nil {
		return nil, err
	}
	c.storeTokens(resp.Tokens)
	return resp, nil
}

// Login authenticates with a username or email plus password and stores the
// issued tokens. rememberMe asks the server for a long-lived refresh token.
func (c *Client) Login(ctx context.Context, identifier, password string, rememberMe bool) (*AuthResponse, error) {
	payload := map[string]any{
		"identifier": identifier,
		"password":   password,
		"rememberMe": rememberMe,
	}

	raw, err := c.executeWith(ctx, "login", http.MethodPost, "/auth/login", payload, callOpts{skipAuth: true})
	if err != nil {
		return nil, err
	}

	resp, err := decode[AuthResponse](raw)
	if err != nil {
		return nil, err
	}
	c.storeTokens(resp.Tokens)
	return resp, nil
}

// Logout revokes the session server-side and drops local credentials.
//
// Local credentials are cleared no matter how the server call goes: a logout
// that fails remotely must still log out locally.
func (c *Client) Logout(ctx context.Context) error {
	refreshToken := c.tokens.RefreshToken()
	defer c.tokens.Clear()

	payload := map[string]string{}
	if refreshToken != "" {
		payload["refreshToken"] = refreshToken
	}

	_, err := c.executeWith(ctx, "logout", http.MethodPost, "/auth/logout", payload, callOpts{skipAuth: true})
	return err
}

// RefreshSession exchanges the refresh token for a new access token and
// returns the server's response. Concurrent callers share one in-flight
// refresh request.
func (c *Client) RefreshSession(ctx context.Context) (*AuthResponse, error) {
	return c.refreshShared(ctx)
}

// WithSession runs fn against a freshly logged-in client and always logs
// out afterward. The logout is best-effort: local credentials are cleared
// either way, and a remote logout failure never masks fn's result.
func WithSession(ctx context.Context, config Config, identifier, password string, fn func(*Client) error) error {
	client, err := New(config)
	if err != nil {
		return err
	}

	if _, err := client.Login(ctx, identifier, password, false); err != nil {
		return err
	}
	defer func() { _ = client.Logout(ctx) }()

	return fn(client)
}

// VerifyEmail confirms an email address with the token from the
// verification email.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*MessageResponse, error) {
	path := "/auth/verify-email?token=" + url.QueryEscape(token)

	raw, err := c.executeWith(ctx, "verify_email", http.MethodGet, path, nil, callOpts{skipAuth: true})
	if err != nil {
		return nil, err
	}
	return decode[MessageResponse](raw)
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	payload := map[string]string{"email": email}

	raw, err := c.executeWith(ctx, "forgot_password", http.MethodPost, "/auth/forgot-password", payload, callOpts{skipAuth: true})
	if err != nil {
		return nil, err
	}
	return decode[MessageResponse](raw)
}

// ResetPassword sets a new password using the token from the reset email.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (*MessageResponse, error) {
	payload := map[string]string{
		"token":    token,
		"password": newPassword,
	}

	raw, err := c.executeWith(ctx, "reset_password", http.MethodPost, "/auth/reset-password", payload, callOpts{skipAuth: true})
	if err != nil {
		return nil, err
	}
	return decode[MessageResponse](raw)
}
