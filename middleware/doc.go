// Package middleware exposes HTTP middleware adapters for authentication and
// role enforcement built on top of authgate.Gateway validation.
//
// # Guards
//
//   - [Authenticated] — verifies the bearer session token, no role check.
//   - [RequireRoles] — verifies the token, then enforces role membership.
//   - [OwnData] — restricts a route to the caller's own resource.
//
// Each guard reads the Authorization header, calls the Gateway, and injects the
// validated result into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Gateway calls. It does NOT
// implement authentication logic itself — all decisions are delegated to
// Gateway.Authenticate and Gateway.AuthorizeRoles.
//
// # What this package must NOT do
//
//   - Parse or create session tokens directly (delegates to Gateway).
//   - Access the cache backend (Gateway handles I/O).
//   - Make authorization decisions beyond pass/reject from the Gateway.
package middleware
