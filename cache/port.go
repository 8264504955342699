package cache

import (
	"context"
	"time"
)

// Port is the narrow contract a cache backend must satisfy. All operations
// are best-effort: implementations absorb backend failures and return the
// absent/false result instead. Keys arriving here are already namespaced.
//
// A Port is selected once at startup and shared process-wide; implementations
// must be safe for concurrent use.
type Port interface {
	// GetRaw returns the raw stored value, or absent on miss or failure.
	GetRaw(ctx context.Context, key string) (string, bool)
	// SetRaw stores value under key. A non-positive ttl stores without expiry.
	SetRaw(ctx context.Context, key, value string, ttl time.Duration) bool
	// Delete removes key, reporting whether the backend acknowledged it.
	Delete(ctx context.Context, key string) bool
	// Incr atomically increments the integer at key, creating it at 1.
	Incr(ctx context.Context, key string) (int64, bool)
	// Expire sets a fresh ttl on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) bool
	// Shutdown releases backend resources.
	Shutdown(ctx context.Context) error
}

// NoopPort is the substitute backend used when caching is disabled or
// misconfigured. Every operation reports absent/false, which callers already
// treat as a miss, so the rest of the system is oblivious to the swap.
type NoopPort struct{}

// GetRaw describes the getraw operation and its observable behavior.
func (NoopPort) GetRaw(context.Context, string) (string, bool) { return "", false }

// SetRaw describes the setraw operation and its observable behavior.
func (NoopPort) SetRaw(context.Context, string, string, time.Duration) bool { return false }

// Delete describes the delete operation and its observable behavior.
func (NoopPort) Delete(context.Context, string) bool { return false }

// Incr describes the incr operation and its observable behavior.
func (NoopPort) Incr(context.Context, string) (int64, bool) { return 0, false }

// Expire describes the expire operation and its observable behavior.
func (NoopPort) Expire(context.Context, string, time.Duration) bool { return false }

// Shutdown describes the shutdown operation and its observable behavior.
func (NoopPort) Shutdown(context.Context) error { return nil }
