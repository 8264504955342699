// Package authgate provides an authentication and authorization gateway that
// turns a third-party OAuth2 identity assertion into an application session
// token and gates subsequent requests by an authoritative, cache-accelerated
// role check.
//
// The package is designed for concurrent server workloads: Gateway methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authgate is the public surface. It exposes [Gateway], [Builder], [Config],
// and value types (UserRecord, Identity, AuthResult, MetricsSnapshot). The
// caller supplies the two collaborators at the edges: a [UserStore] (the sole
// source of truth for roles) and a [Provider] (the identity provider adapter).
// Token signing lives in the token subpackage, the fail-open cache layer in
// the cache subpackage, and HTTP glue in middleware.
//
// # What this package must NOT do
//
//   - Trust a role carried inside any token payload. Roles are always
//     re-derived from the user store, optionally through the role cache.
//   - Abort a request because the cache backend is unavailable. Cache
//     failures degrade to misses; only the role-set check itself is
//     fail-closed.
//   - Persist state or session tokens server-side. Both are verified purely
//     by signature and expiry.
package authgate
