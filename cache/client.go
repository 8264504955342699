package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Client builds typed operations and version counters on top of a [Port]. It
// owns the process-wide key namespace prefix; logical keys passed to its
// methods are prefixed before they reach the backend.
//
// A Client holds no per-request state and is shared read/write across all
// concurrent requests without locking.
type Client struct {
	port       Port
	prefix     string
	defaultTTL time.Duration
	logger     *zap.Logger
}

// NewClient creates a cache [Client] over the given backend port.
//
// NewClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewClient(port Port, prefix string, defaultTTL time.Duration, logger *zap.Logger) *Client {
	if port == nil {
		port = NoopPort{}
	}
	if defaultTTL <= 0 {
		defaultTTL = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{port: port, prefix: prefix, defaultTTL: defaultTTL, logger: logger}
}

func (c *Client) prefixed(key string) string {
	return c.prefix + key
}

// Delete removes a logical key. Best-effort: false means the backend did not
// acknowledge, which callers treat the same as an already-absent key.
func (c *Client) Delete(ctx context.Context, key string) bool {
	return c.port.Delete(ctx, c.prefixed(key))
}

// Expire sets a fresh ttl on a logical key.
//
// Expire does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	return c.port.Expire(ctx, c.prefixed(key), ttl)
}

// BumpVersion increments the named namespace version counter. Counters are
// created at 1 on first bump, never decremented, and carry no expiry.
func (c *Client) BumpVersion(ctx context.Context, name string) (int64, bool) {
	return c.port.Incr(ctx, c.prefixed(versionKey(name)))
}

// GetVersion reads the named namespace version counter, defaulting to 0 on
// miss, backend failure, or a malformed stored value.
func (c *Client) GetVersion(ctx context.Context, name string) int64 {
	raw, ok := c.port.GetRaw(ctx, c.prefixed(versionKey(name)))
	if !ok {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Close releases the backend. Call once at process shutdown.
func (c *Client) Close(ctx context.Context) error {
	return c.port.Shutdown(ctx)
}

// Get reads and deserializes a logical key. A miss, backend failure, or
// deserialization failure all report absent.
func Get[T any](ctx context.Context, c *Client, key string) (T, bool) {
	var zero T
	raw, ok := c.port.GetRaw(ctx, c.prefixed(key))
	if !ok {
		return zero, false
	}
	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		c.logger.Warn("cache value malformed, treating as miss", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return value, true
}

// Set serializes and stores a value under a logical key. A non-positive ttl
// uses the client default.
func Set[T any](ctx context.Context, c *Client, key string, value T, ttl time.Duration) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache value not serializable", zap.String("key", key), zap.Error(err))
		return false
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	return c.port.SetRaw(ctx, c.prefixed(key), string(raw), ttl)
}

// GetOrSet returns the cached value for key, or invokes producer on miss,
// stores its result under ttl, and returns it regardless of whether the
// store succeeded. The second result reports whether the value came from the
// cache.
//
// There is no single-flight guard: concurrent misses for the same key may
// each invoke producer. Producers must be idempotent or tolerant of duplicate
// execution. A producer error propagates unchanged; nothing is stored.
func GetOrSet[T any](ctx context.Context, c *Client, key string, ttl time.Duration, producer func(context.Context) (T, error)) (T, bool, error) {
	if value, ok := Get[T](ctx, c, key); ok {
		return value, true, nil
	}

	value, err := producer(ctx)
	if err != nil {
		var zero T
		return zero, false, err
	}

	Set(ctx, c, key, value, ttl)
	return value, false, nil
}

func versionKey(name string) string {
	return "version:" + name
}
