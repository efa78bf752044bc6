// Package inmem holds process-local stand-ins for external stores.
package inmem

import (
	"context"
	"sync"
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
)

type entry struct {
	results []core.SearchResult
	expires time.Time
}

// SearchCache keeps search results in memory until their TTL passes. Expired
// entries are dropped lazily on read and on Purge.
type SearchCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

func NewSearchCache() *SearchCache {
	return &SearchCache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func (c *SearchCache) WithClock(now func() time.Time) *SearchCache {
	c.now = now
	return c
}

func (c *SearchCache) Get(_ context.Context, key string) ([]core.SearchResult, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}

	// Copy to prevent external mutation
	out := make([]core.SearchResult, len(e.results))
	copy(out, e.results)
	return out, true, nil
}

// Set stores a copy of results. A ttl of zero never expires.
func (c *SearchCache) Set(_ context.Context, key string, results []core.SearchResult, ttl time.Duration) error {
	stored := make([]core.SearchResult, len(results))
	copy(stored, results)

	e := entry{results: stored}
	if ttl > 0 {
		e.expires = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
	return nil
}

// Purge removes expired entries and returns how many were removed.
func (c *SearchCache) Purge() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.entries {
		if !e.expires.IsZero() && !now.Before(e.expires) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

func (c *SearchCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
