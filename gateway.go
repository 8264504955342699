package authgate

import (
	"context"

	"go.uber.org/zap"

	"github.com/MrEthical07/authgate/cache"
	"github.com/MrEthical07/authgate/token"
)

// Gateway is the process-wide authentication and authorization core. It is
// constructed once through [Builder.Build], holds no per-request mutable
// state, and is safe for concurrent use without locking.
type Gateway struct {
	config   Config
	codec    *token.Codec
	cache    *cache.Client
	store    UserStore
	provider Provider
	logger   *zap.Logger
	metrics  *Metrics
}

// Cache exposes the gateway's cache client so surrounding HTTP glue can
// prime or inspect entries without constructing a second instance.
//
// Cache does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Gateway) Cache() *cache.Client {
	return g.cache
}

// Metrics returns the gateway's counter registry.
//
// Metrics does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Gateway) Metrics() *Metrics {
	return g.metrics
}

// MetricsSnapshot returns a point-in-time copy of all counters and
// histograms, in the shape the exporters consume.
//
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (g *Gateway) MetricsSnapshot() MetricsSnapshot {
	return g.metrics.Snapshot()
}

// Close releases the cache backend. Call once at process shutdown.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
func (g *Gateway) Close(ctx context.Context) error {
	return g.cache.Close(ctx)
}
