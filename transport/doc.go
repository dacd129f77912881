// Package transport is the client's network boundary.
//
// It reduces HTTP to a single capability: send a method, URL, headers, and
// body; get back a status, headers, and body, or a transport-level failure.
// Retries, authentication, and outcome classification live in the stellar
// package above it; everything below it belongs to net/http.
//
// The Doer interface exists so tests and callers can substitute the network
// entirely.
package transport
