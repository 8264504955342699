// Package token signs and verifies the compact, expiring, tamper-evident
// tokens the gateway uses both for OAuth state binding and for application
// sessions. Tokens are self-contained: verification needs only the shared
// secret, never server-side state.
package token
