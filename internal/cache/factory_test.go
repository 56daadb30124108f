package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCache_Memory(t *testing.T) {
	c, info, err := NewCache(DefaultConfig(), nil)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, TypeMemory, info.Backend)
	assert.False(t, info.IsFallback)
	assert.IsType(t, &MemoryCache{}, c)
}

func TestNewCache_RedisFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = TypeRedis
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	c, info, err := NewCache(cfg, nil)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, TypeMemory, info.Backend)
	assert.True(t, info.IsFallback)
}

func TestNewCache_RedisNoFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = TypeRedis
	cfg.RedisURL = "redis://127.0.0.1:1/0"
	cfg.FallbackToMemory = false
	cfg.DefaultTTL = time.Second

	_, _, err := NewCache(cfg, nil)
	assert.Error(t, err)
}

func TestNewCache_RedisTypeWithoutURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = TypeRedis

	c, info, err := NewCache(cfg, nil)
	require.NoError(t, err)
	defer func() { _ = c.Close() }()

	assert.Equal(t, TypeMemory, info.Backend)
}
