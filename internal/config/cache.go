package config

import (
	"strings"
	"time"
)

// CacheConfig defines settings for the public response cache middleware.
// Only the listed HTTP methods are cached.  The TTL bounds how stale the
// availability numbers on cached performance listings may get; keep it
// short.  When Enabled is false or no Redis client exists the middleware
// is a pass-through.
type CacheConfig struct {
	Enabled      bool
	Methods      map[string]bool
	TTL          time.Duration
	Prefix       string
	KeyStrategy  string
	MaxBodyBytes int
}

// LoadCacheConfig builds a CacheConfig from CACHE_* environment variables
// with defaults of GET-only caching for 30 seconds and a 1 MiB body cap.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		Methods:      parseMethods(getenv("CACHE_METHODS", "GET")),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       getenv("CACHE_PREFIX", "cache"),
		KeyStrategy:  getenv("CACHE_KEY_STRATEGY", "path_query"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
