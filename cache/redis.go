package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPort adapts a go-redis client to [Port]. Failures are logged and
// absorbed: the caller sees a miss, never an error. Timeouts belong to the
// client's own dial/read/write configuration, so no operation here can hang
// past what the client allows.
type RedisPort struct {
	client redis.UniversalClient
	logger *zap.Logger
}

// NewRedisPort creates a [RedisPort] backed by the given client.
//
// NewRedisPort does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisPort(client redis.UniversalClient, logger *zap.Logger) *RedisPort {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPort{client: client, logger: logger}
}

// GetRaw describes the getraw operation and its observable behavior.
func (p *RedisPort) GetRaw(ctx context.Context, key string) (string, bool) {
	value, err := p.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return "", false
	}
	return value, true
}

// SetRaw describes the setraw operation and its observable behavior.
func (p *RedisPort) SetRaw(ctx context.Context, key, value string, ttl time.Duration) bool {
	if ttl < 0 {
		ttl = 0
	}
	if err := p.client.Set(ctx, key, value, ttl).Err(); err != nil {
		p.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Delete describes the delete operation and its observable behavior.
func (p *RedisPort) Delete(ctx context.Context, key string) bool {
	if err := p.client.Del(ctx, key).Err(); err != nil {
		p.logger.Warn("cache del failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Incr describes the incr operation and its observable behavior.
func (p *RedisPort) Incr(ctx context.Context, key string) (int64, bool) {
	value, err := p.client.Incr(ctx, key).Result()
	if err != nil {
		p.logger.Warn("cache incr failed", zap.String("key", key), zap.Error(err))
		return 0, false
	}
	return value, true
}

// Expire describes the expire operation and its observable behavior.
func (p *RedisPort) Expire(ctx context.Context, key string, ttl time.Duration) bool {
	ok, err := p.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		p.logger.Warn("cache expire failed", zap.String("key", key), zap.Error(err))
		return false
	}
	return ok
}

// Shutdown describes the shutdown operation and its observable behavior.
func (p *RedisPort) Shutdown(context.Context) error {
	return p.client.Close()
}
