package authgate

import (
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MrEthical07/authgate/cache"
	"github.com/MrEthical07/authgate/token"
)

// Builder defines a public type used by authgate APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	cachePort cache.Port
	store     UserStore
	provider  Provider
	logger    *zap.Logger

	built bool
}

// New describes the new operation and its observable behavior.
//
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the Redis client backing the role cache. Leaving it
// unset, or disabling the cache in config, selects the no-op backend.
//
// WithRedis does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithCachePort overrides backend selection with a custom [cache.Port].
// Takes precedence over WithRedis.
//
// WithCachePort does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithCachePort(port cache.Port) *Builder {
	b.cachePort = port
	return b
}

// WithUserStore describes the withuserstore operation and its observable behavior.
//
// WithUserStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.store = store
	return b
}

// WithProvider describes the withprovider operation and its observable behavior.
//
// WithProvider does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithProvider(provider Provider) *Builder {
	b.provider = provider
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration and assembles the [Gateway]. Backend
// selection between the real and no-op cache happens exactly once here; the
// resulting instance is immutable and shared by all requests.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
func (b *Builder) Build() (*Gateway, error) {
	if b.built {
		return nil, errors.New("builder already consumed")
	}
	if b.store == nil {
		return nil, errors.New("user store is required")
	}
	if b.provider == nil {
		return nil, errors.New("identity provider is required")
	}
	if err := validateConfig(b.config); err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	codec := token.NewCodec(token.Config{
		Secret:     b.config.Token.SigningSecret,
		Issuer:     b.config.Token.Issuer,
		SessionTTL: b.config.Token.SessionTTL,
		StateTTL:   b.config.Token.StateTTL,
		Leeway:     b.config.Token.Leeway,
	})

	port := b.cachePort
	if port == nil {
		switch {
		case !b.config.Cache.Enabled:
			logger.Info("cache disabled in config, using noop backend")
			port = cache.NoopPort{}
		case b.redis == nil:
			logger.Warn("cache enabled but no redis client supplied, falling back to noop backend")
			port = cache.NoopPort{}
		default:
			port = cache.NewRedisPort(b.redis, logger.Named("cache"))
		}
	}

	cacheClient := cache.NewClient(port, b.config.Cache.Prefix, b.config.Cache.DefaultTTL, logger.Named("cache"))

	b.built = true
	return &Gateway{
		config:   b.config,
		codec:    codec,
		cache:    cacheClient,
		store:    b.store,
		provider: b.provider,
		logger:   logger,
		metrics:  NewMetrics(b.config.Metrics),
	}, nil
}
