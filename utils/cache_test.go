package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPageCache returns a memory cache with a controllable clock.
func newTestPageCache(t *testing.T, ttl time.Duration) (*memoryPageCache, *time.Time) {
	t.Helper()
	cache := NewMemoryPageCache(ttl).(*memoryPageCache)
	now := time.Now()
	cache.now = func() time.Time { return now }
	return cache, &now
}

func TestMemoryPageCacheServesUntilTTL(t *testing.T) {
	cache, now := newTestPageCache(t, 20*time.Second)

	cache.Set(1, []byte(`{"feed":"v1"}`))

	body, ok := cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"feed":"v1"}`), body)

	// Still inside the TTL window: the stale body keeps being served even
	// though nothing refreshed it.
	*now = now.Add(19 * time.Second)
	body, ok = cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"feed":"v1"}`), body)

	// Past the TTL the entry is gone.
	*now = now.Add(2 * time.Second)
	_, ok = cache.Get(1)
	assert.False(t, ok)
}

func TestMemoryPageCacheKeysByPage(t *testing.T) {
	cache, _ := newTestPageCache(t, time.Minute)

	cache.Set(1, []byte("page-one"))
	cache.Set(2, []byte("page-two"))

	body, ok := cache.Get(2)
	require.True(t, ok)
	assert.Equal(t, []byte("page-two"), body)

	_, ok = cache.Get(3)
	assert.False(t, ok)
}

func TestMemoryPageCacheClearAll(t *testing.T) {
	cache, _ := newTestPageCache(t, time.Minute)

	cache.Set(1, []byte("a"))
	cache.Set(2, []byte("b"))
	cache.ClearAll()

	_, ok := cache.Get(1)
	assert.False(t, ok)
	_, ok = cache.Get(2)
	assert.False(t, ok)
}

func TestMemoryPageCacheLastWriterWins(t *testing.T) {
	cache, _ := newTestPageCache(t, time.Minute)

	cache.Set(1, []byte("old"))
	cache.Set(1, []byte("new"))

	body, ok := cache.Get(1)
	require.True(t, ok)
	assert.Equal(t, []byte("new"), body)
}
