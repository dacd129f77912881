// Package auth holds the client's bearer-token session state.
//
// TokenState is the single authority for the access token, refresh token,
// and expiry instant of one client session. The stellar package's session
// methods populate it from login/refresh responses and clear it on logout;
// the request executor reads it to attach the Authorization header and to
// schedule proactive refreshes.
//
// Session lifetime is process-scoped: nothing here persists credentials.
package auth
