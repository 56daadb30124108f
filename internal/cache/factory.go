package cache

import (
	"log/slog"
	"time"
)

// Cache backend types.
const (
	TypeMemory = "memory"
	TypeRedis  = "redis"
)

// Config holds configuration for cache creation.
type Config struct {
	// Type is the cache backend type: "memory" or "redis"
	Type string

	// RedisURL is the Redis connection URL (only for redis type)
	RedisURL string

	// Prefix is the key prefix for Redis (only for redis type)
	Prefix string

	// DefaultTTL is the default TTL for cache entries
	DefaultTTL time.Duration

	// MaxSize is the maximum number of entries for memory cache (0 = unlimited)
	MaxSize int

	// CleanupInterval is the interval for expired entry cleanup
	CleanupInterval time.Duration

	// FallbackToMemory uses a memory cache when Redis cannot be reached.
	FallbackToMemory bool
}

// DefaultConfig returns default cache configuration.
func DefaultConfig() Config {
	return Config{
		Type:             TypeMemory,
		DefaultTTL:       time.Hour,
		MaxSize:          10000,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	}
}

// Info describes the backend that NewCache selected.
type Info struct {
	Backend    string
	IsFallback bool
}

// NewCache creates a cache based on the provided configuration.
func NewCache(cfg Config, logger *slog.Logger) (Cacher, Info, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.Type == TypeRedis && cfg.RedisURL != "" {
		opts := DefaultRedisCacheOptions()
		opts.URL = cfg.RedisURL
		if cfg.Prefix != "" {
			opts.Prefix = cfg.Prefix
		}
		if cfg.DefaultTTL > 0 {
			opts.DefaultTTL = cfg.DefaultTTL
		}

		rc, err := NewRedisCache(opts)
		if err == nil {
			return rc, Info{Backend: TypeRedis}, nil
		}
		if !cfg.FallbackToMemory {
			return nil, Info{}, err
		}
		logger.Warn("redis unavailable, falling back to memory cache", "error", err, "category", "cache")
		return newMemoryFromConfig(cfg), Info{Backend: TypeMemory, IsFallback: true}, nil
	}

	return newMemoryFromConfig(cfg), Info{Backend: TypeMemory}, nil
}

func newMemoryFromConfig(cfg Config) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: cfg.CleanupInterval,
	})
}
