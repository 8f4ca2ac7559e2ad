package utils

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
)

const feedCacheKeyPrefix = "cache:feed:global:"

// PageCache stores fully rendered global-feed pages keyed by page number.
// Expiry is TTL-only: post writes and deletes do NOT evict entries, so a
// deleted post may stay visible on a cached page until the TTL runs out or
// ClearAll is called. That staleness window is a deliberate throughput
// trade-off on the busiest view.
type PageCache interface {
	Get(page int) ([]byte, bool)
	Set(page int, body []byte)
	ClearAll()
}

// NewPageCache returns a Redis-backed cache when a Redis client is
// configured, otherwise an in-process one.
func NewPageCache(ttl time.Duration) PageCache {
	if rc := GetRedis(); rc != nil {
		return &redisPageCache{rc: rc, ttl: ttl}
	}
	return NewMemoryPageCache(ttl)
}

type redisPageCache struct {
	rc  *redis.Client
	ttl time.Duration
}

func (c *redisPageCache) key(page int) string {
	return fmt.Sprintf("%spage=%d", feedCacheKeyPrefix, page)
}

func (c *redisPageCache) Get(page int) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := c.rc.Get(ctx, c.key(page)).Bytes()
	if err != nil {
		if err != redis.Nil && Sugar != nil {
			Sugar.Debugf("feed cache get failed page=%d err=%v", page, err)
		}
		return nil, false
	}
	return b, true
}

func (c *redisPageCache) Set(page int, body []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.rc.Set(ctx, c.key(page), body, c.ttl).Err(); err != nil && Sugar != nil {
		Sugar.Warnf("feed cache set failed page=%d err=%v", page, err)
	}
}

// ClearAll deletes every cached page using SCAN so large keyspaces are not
// blocked by a single KEYS call.
func (c *redisPageCache) ClearAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ { // limit rounds to avoid long loops
		keys, cur, err := c.rc.Scan(ctx, cursor, feedCacheKeyPrefix+"*", 1000).Result()
		if err != nil {
			break
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.rc.Pipeline()
			for _, k := range keys {
				pipe.Del(ctx, k)
			}
			_, _ = pipe.Exec(ctx)
		}
		if cursor == 0 {
			break
		}
	}
}

type pageEntry struct {
	body      []byte
	expiresAt time.Time
}

type memoryPageCache struct {
	entries *lru.Cache[int, pageEntry]
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryPageCache builds an in-process page cache with per-entry expiry.
// A feed has a small bounded number of pages, so the LRU capacity is mostly
// a guard against unbounded growth from garbage page numbers.
func NewMemoryPageCache(ttl time.Duration) PageCache {
	l, _ := lru.New[int, pageEntry](128)
	return &memoryPageCache{entries: l, ttl: ttl, now: time.Now}
}

func (c *memoryPageCache) Get(page int) ([]byte, bool) {
	entry, ok := c.entries.Get(page)
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.entries.Remove(page)
		return nil, false
	}
	return entry.body, true
}

func (c *memoryPageCache) Set(page int, body []byte) {
	c.entries.Add(page, pageEntry{body: body, expiresAt: c.now().Add(c.ttl)})
}

func (c *memoryPageCache) ClearAll() {
	c.entries.Purge()
}
