package authgate

import (
	"errors"
	"time"
)

// Config defines a public type used by authgate APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Token    TokenConfig
	Provider ProviderConfig
	Redirect RedirectConfig
	Cache    CacheConfig
	Metrics  MetricsConfig
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig defines a public type used by authgate APIs.
//
// TokenConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenConfig struct {
	// SigningSecret is the HMAC secret shared by state and session tokens.
	// An empty secret is not a construction error; signing operations fail
	// individually so a misconfigured process can still serve unauthenticated
	// routes.
	SigningSecret []byte
	Issuer        string
	// SessionTTL bounds session tokens (moderate lifetime).
	SessionTTL time.Duration
	// StateTTL bounds OAuth state tokens. Must stay in the minutes range to
	// bound the flow replay window.
	StateTTL time.Duration
	Leeway   time.Duration
}

/*
====================================
PROVIDER CONFIG
====================================
*/

// ProviderConfig defines a public type used by authgate APIs.
//
// ProviderConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	// RedirectURI is the provider-facing callback, not the client redirect
	// target embedded in state tokens.
	RedirectURI string
	Scopes      []string
}

/*
====================================
REDIRECT CONFIG
====================================
*/

// RedirectConfig defines a public type used by authgate APIs.
//
// RedirectConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedirectConfig struct {
	// AllowList is the exact-match set of permitted client redirect targets.
	// When non-empty, a flow may only begin toward one of its entries.
	AllowList []string
	// DefaultTarget is used when the caller supplies no redirect target.
	DefaultTarget string
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig defines a public type used by authgate APIs.
//
// CacheConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CacheConfig struct {
	Enabled bool
	// Addr, Username, and Password configure the Redis backend. They are
	// consumed by process bootstrap when constructing the client handed to
	// [Builder.WithRedis]; the gateway itself never dials.
	Addr     string
	Username string
	Password string
	// Prefix namespaces every key so deployments can share a backend.
	Prefix     string
	DefaultTTL time.Duration
	// RoleTTL bounds the staleness window of cached role projections.
	RoleTTL time.Duration
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by authgate APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// DefaultConfig returns the baseline configuration used by [New].
//
// DefaultConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		Token: TokenConfig{
			SessionTTL: time.Hour,
			StateTTL:   10 * time.Minute,
		},
		Provider: ProviderConfig{
			Scopes: []string{"openid", "email", "profile"},
		},
		Cache: CacheConfig{
			Enabled:    true,
			Prefix:     "authgate:",
			DefaultTTL: 60 * time.Second,
			RoleTTL:    60 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

func validateConfig(cfg Config) error {
	if cfg.Token.SessionTTL <= 0 {
		return errors.New("invalid session TTL configuration")
	}
	if cfg.Token.StateTTL <= 0 || cfg.Token.StateTTL > time.Hour {
		return errors.New("state TTL must be positive and at most one hour")
	}
	if cfg.Token.Leeway < 0 || cfg.Token.Leeway > 2*time.Minute {
		return errors.New("invalid leeway configuration")
	}
	if cfg.Cache.DefaultTTL <= 0 {
		return errors.New("invalid cache default TTL configuration")
	}
	if cfg.Cache.RoleTTL <= 0 {
		return errors.New("invalid role cache TTL configuration")
	}
	return nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.Token.SigningSecret = append([]byte(nil), cfg.Token.SigningSecret...)
	out.Provider.Scopes = append([]string(nil), cfg.Provider.Scopes...)
	out.Redirect.AllowList = append([]string(nil), cfg.Redirect.AllowList...)
	return out
}
