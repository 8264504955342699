// Package provider adapts identity providers to the gateway's Provider port.
// Only the Google authorization-code flow is modeled: building the
// authorization URL, exchanging the callback code, and fetching the verified
// identity assertion from the userinfo endpoint.
package provider
