package cache

import "time"

// CacheConfig holds TTL and key layout for the schedule cache.
type CacheConfig struct {
	ScheduleTTL time.Duration `json:"scheduleTTL"` // computed due dates stay valid within a session
	KeyPrefix   string        `json:"keyPrefix"`   // prefix for all cache keys
}

// DefaultCacheConfig returns the default schedule cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ScheduleTTL: 10 * time.Minute,
		KeyPrefix:   "fleet:",
	}
}
