package inmem

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResults(titles ...string) []core.SearchResult {
	out := make([]core.SearchResult, len(titles))
	for i, title := range titles {
		out[i] = core.SearchResult{Title: title, Link: "https://example.com/" + title}
	}
	return out
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSearchCache_Get(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		setup     func(c *SearchCache, clk *clock)
		wantCount int
		wantOk    bool
	}{
		{
			name:   "empty_cache",
			setup:  func(c *SearchCache, clk *clock) {},
			wantOk: false,
		},
		{
			name: "fresh_entry",
			setup: func(c *SearchCache, clk *clock) {
				_ = c.Set(ctx, "k", makeResults("a", "b"), time.Minute)
			},
			wantCount: 2,
			wantOk:    true,
		},
		{
			name: "empty_results_are_a_hit",
			setup: func(c *SearchCache, clk *clock) {
				_ = c.Set(ctx, "k", nil, time.Minute)
			},
			wantOk: true,
		},
		{
			name: "expired_entry",
			setup: func(c *SearchCache, clk *clock) {
				_ = c.Set(ctx, "k", makeResults("a"), time.Minute)
				clk.Advance(time.Minute)
			},
			wantOk: false,
		},
		{
			name: "zero_ttl_never_expires",
			setup: func(c *SearchCache, clk *clock) {
				_ = c.Set(ctx, "k", makeResults("a"), 0)
				clk.Advance(24 * time.Hour)
			},
			wantCount: 1,
			wantOk:    true,
		},
		{
			name: "overwrite",
			setup: func(c *SearchCache, clk *clock) {
				_ = c.Set(ctx, "k", makeResults("old1", "old2"), time.Minute)
				_ = c.Set(ctx, "k", makeResults("new"), time.Minute)
			},
			wantCount: 1,
			wantOk:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := &clock{now: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
			c := NewSearchCache().WithClock(clk.Now)
			tt.setup(c, clk)

			results, ok, err := c.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, tt.wantOk, ok)
			assert.Len(t, results, tt.wantCount)
		})
	}
}

func TestSearchCache_CopiesOnReadAndWrite(t *testing.T) {
	ctx := context.Background()
	c := NewSearchCache()

	in := makeResults("a")
	require.NoError(t, c.Set(ctx, "k", in, time.Minute))
	in[0].Title = "mutated"

	out, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "a", out[0].Title)

	out[0].Title = "mutated again"
	again, _, _ := c.Get(ctx, "k")
	assert.Equal(t, "a", again[0].Title)
}

func TestSearchCache_Purge(t *testing.T) {
	ctx := context.Background()
	clk := &clock{now: time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)}
	c := NewSearchCache().WithClock(clk.Now)

	require.NoError(t, c.Set(ctx, "short", makeResults("a"), time.Minute))
	require.NoError(t, c.Set(ctx, "long", makeResults("b"), time.Hour))
	require.NoError(t, c.Set(ctx, "forever", makeResults("c"), 0))

	clk.Advance(2 * time.Minute)

	assert.Equal(t, 1, c.Purge())
	assert.Equal(t, 2, c.Len())
}

func TestSearchCache_Concurrent(t *testing.T) {
	ctx := context.Background()
	c := NewSearchCache()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, fmt.Sprintf("k%d", i%5), makeResults("a", "b"), time.Minute)
		}()
		go func() {
			defer wg.Done()
			_, _, _ = c.Get(ctx, fmt.Sprintf("k%d", i%5))
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, c.Len())
}
