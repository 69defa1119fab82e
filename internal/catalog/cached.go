package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
)

const topicsKey = "topics"

// Cached decorates a Catalog with an in-memory TTL cache. Failed loads are
// never cached.
type Cached struct {
	inner Catalog
	cache *cache.Cache // nil when caching is disabled
}

// NewCached wraps inner. Entries expire after ttl and are purged every
// 2*ttl. A ttl <= 0 disables caching and every call reaches inner.
func NewCached(inner Catalog, ttl time.Duration) *Cached {
	c := &Cached{inner: inner}
	if ttl > 0 {
		c.cache = cache.New(ttl, 2*ttl)
	}
	return c
}

func (c *Cached) Topics(ctx context.Context) ([]Topic, error) {
	if c.cache == nil {
		return c.inner.Topics(ctx)
	}
	if x, ok := c.cache.Get(topicsKey); ok {
		return x.([]Topic), nil
	}
	topics, err := c.inner.Topics(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.Set(topicsKey, topics, cache.DefaultExpiration)
	return topics, nil
}

func (c *Cached) Prompts(ctx context.Context, topicID int64) ([]Prompt, error) {
	if c.cache == nil {
		return c.inner.Prompts(ctx, topicID)
	}
	key := promptsKey(topicID)
	if x, ok := c.cache.Get(key); ok {
		return x.([]Prompt), nil
	}
	prompts, err := c.inner.Prompts(ctx, topicID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, prompts, cache.DefaultExpiration)
	return prompts, nil
}

// Invalidate drops every cached entry.
func (c *Cached) Invalidate() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

func promptsKey(topicID int64) string {
	return "prompts:" + strconv.FormatInt(topicID, 10)
}
