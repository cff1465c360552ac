package mealdb

import (
	"testing"
	"time"

	"recipe-ideas/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
)

func newTestCache(t *testing.T, maxSize int) (*ResponseCache, *time.Time) {
	t.Helper()
	c := NewResponseCache(&config.CacheConfig{
		Enabled:         true,
		MaxSize:         maxSize,
		TTL:             time.Minute,
		CleanupInterval: time.Hour,
	})
	t.Cleanup(func() { c.Close() })

	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestResponseCacheDisabledIsNil(t *testing.T) {
	c := NewResponseCache(&config.CacheConfig{Enabled: false})
	assert.Nil(t, c)

	// nil 快取可安全呼叫
	c.Set("k", []byte("v"))
	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.NoError(t, c.Close())
}

func TestResponseCacheExpires(t *testing.T) {
	c, now := newTestCache(t, 10)

	c.Set("filter?i=egg", []byte("body"))
	v, ok := c.Get("filter?i=egg")
	assert.True(t, ok)
	assert.Equal(t, []byte("body"), v)

	*now = now.Add(2 * time.Minute)
	_, ok = c.Get("filter?i=egg")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestResponseCacheEvictsLeastUsed(t *testing.T) {
	c, now := newTestCache(t, 2)

	c.Set("a", []byte("1"))
	*now = now.Add(time.Second)
	c.Set("b", []byte("2"))
	c.Get("a")

	c.Set("c", []byte("3"))

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestResponseCacheStats(t *testing.T) {
	c, _ := newTestCache(t, 5)
	c.Set("a", []byte("1"))
	c.Get("a")
	c.Get("missing")

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 0.5, stats["hit_ratio"])
}
