// Package cache provides the gateway's fail-open caching layer: a narrow
// key-value Port any backend can satisfy, and a typed Client with
// get-or-populate and per-namespace version counters on top of it.
//
// Every operation is best-effort. A backend failure surfaces as the
// absent/false result, never as an error the caller must handle; fail-open
// behavior is visible in the signatures rather than hidden in recovery
// blocks. Callers must treat cache unavailability identically to a miss.
package cache
