// Package redis caches enriched web search results.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sandevgo/ctxengine/internal/core"
)

type SearchCache struct {
	rdb    *redis.Client
	prefix string
}

// NewSearchCache connects to url (redis://...) and pings the server.
func NewSearchCache(ctx context.Context, url, prefix string) (*SearchCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = 5 * time.Second
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewSearchCacheWithClient(rdb, prefix), nil
}

func NewSearchCacheWithClient(rdb *redis.Client, prefix string) *SearchCache {
	return &SearchCache{rdb: rdb, prefix: prefix}
}

func (c *SearchCache) Get(ctx context.Context, key string) ([]core.SearchResult, bool, error) {
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var results []core.SearchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached results: %w", err)
	}
	return results, true, nil
}

func (c *SearchCache) Set(ctx context.Context, key string, results []core.SearchResult, ttl time.Duration) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := c.rdb.Set(ctx, c.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *SearchCache) Close() error {
	return c.rdb.Close()
}
