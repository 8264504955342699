package authgate

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigFromEnv builds a Config from the process environment, falling back to
// defaults for anything unset or malformed. It never fails: a broken cache
// setting degrades to the default rather than refusing to start, matching the
// fail-open posture of the cache layer.
//
// Recognized variables:
//
//	AUTHGATE_SIGNING_SECRET       signing secret for state and session tokens
//	AUTHGATE_SESSION_TTL          session token lifetime in seconds
//	AUTHGATE_STATE_TTL            state token lifetime in seconds
//	GOOGLE_CLIENT_ID              provider client id
//	GOOGLE_CLIENT_SECRET          provider client secret
//	GOOGLE_REDIRECT_URI           provider-facing callback URI
//	CLIENT_REDIRECT_WHITELIST     comma-separated redirect target allow-list
//	FRONTEND_ORIGIN               default redirect target
//	CACHE_ENABLED                 1/true/yes/on (default true)
//	REDIS_ADDR                    cache backend address
//	REDIS_USERNAME                cache backend username
//	REDIS_PASSWORD                cache backend password
//	CACHE_PREFIX                  key namespace prefix
//	CACHE_DEFAULT_TTL             default cache TTL in seconds
func ConfigFromEnv() Config {
	cfg := defaultConfig()

	if secret := os.Getenv("AUTHGATE_SIGNING_SECRET"); secret != "" {
		cfg.Token.SigningSecret = []byte(secret)
	}
	cfg.Token.SessionTTL = envSeconds("AUTHGATE_SESSION_TTL", cfg.Token.SessionTTL)
	cfg.Token.StateTTL = envSeconds("AUTHGATE_STATE_TTL", cfg.Token.StateTTL)

	cfg.Provider.ClientID = envString("GOOGLE_CLIENT_ID", cfg.Provider.ClientID)
	cfg.Provider.ClientSecret = envString("GOOGLE_CLIENT_SECRET", cfg.Provider.ClientSecret)
	cfg.Provider.RedirectURI = envString("GOOGLE_REDIRECT_URI", cfg.Provider.RedirectURI)

	if raw := os.Getenv("CLIENT_REDIRECT_WHITELIST"); raw != "" {
		for _, entry := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(entry); trimmed != "" {
				cfg.Redirect.AllowList = append(cfg.Redirect.AllowList, trimmed)
			}
		}
	}
	cfg.Redirect.DefaultTarget = envString("FRONTEND_ORIGIN", cfg.Redirect.DefaultTarget)

	cfg.Cache.Enabled = envBool("CACHE_ENABLED", cfg.Cache.Enabled)
	cfg.Cache.Addr = envString("REDIS_ADDR", cfg.Cache.Addr)
	cfg.Cache.Username = envString("REDIS_USERNAME", cfg.Cache.Username)
	cfg.Cache.Password = envString("REDIS_PASSWORD", cfg.Cache.Password)
	cfg.Cache.Prefix = envString("CACHE_PREFIX", cfg.Cache.Prefix)
	cfg.Cache.DefaultTTL = envSeconds("CACHE_DEFAULT_TTL", cfg.Cache.DefaultTTL)

	// Cache enabled without a backend address degrades to disabled rather
	// than failing bootstrap.
	if cfg.Cache.Enabled && cfg.Cache.Addr == "" {
		cfg.Cache.Enabled = false
	}

	return cfg
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func envSeconds(name string, fallback time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return time.Duration(n) * time.Second
}
