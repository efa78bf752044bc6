// Package websearch turns a user query into enriched, formatted web results.
package websearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/sandevgo/ctxengine/pkg/log"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	// EnrichTop is how many leading results get their page fetched.
	EnrichTop        int
	PageFetchTimeout time.Duration
	// SearchTimeout bounds the provider call, cache lookups excluded.
	SearchTimeout time.Duration
	CacheTTL      time.Duration
}

func DefaultOptions() Options {
	return Options{
		EnrichTop:        2,
		PageFetchTimeout: 5 * time.Second,
		SearchTimeout:    10 * time.Second,
		CacheTTL:         15 * time.Minute,
	}
}

var _ core.SearchProvider = (*Retriever)(nil)

type Retriever struct {
	provider   core.SearchProvider
	fetcher    core.PageFetcher
	classifier core.QueryClassifier
	cache      core.SearchCache
	opts       Options
}

// NewRetriever wires a retriever; fetcher and cache may be nil.
func NewRetriever(
	provider core.SearchProvider,
	fetcher core.PageFetcher,
	classifier core.QueryClassifier,
	cache core.SearchCache,
	opts Options,
) *Retriever {
	return &Retriever{
		provider:   provider,
		fetcher:    fetcher,
		classifier: classifier,
		cache:      cache,
		opts:       opts,
	}
}

// Search returns at most maxResults results for the enhanced query. A
// provider error is returned as is; page fetch errors only drop the
// additional content of the affected result.
func (r *Retriever) Search(ctx context.Context, query string, maxResults int) ([]core.SearchResult, error) {
	logger := log.FromCtx(ctx)

	if maxResults <= 0 {
		return nil, nil
	}

	enhanced := r.classifier.EnhanceQuery(query)
	logger.Debug().Str("query", query).Str("enhanced", enhanced).Msg("web search")

	key := CacheKey(enhanced, maxResults)
	if r.cache != nil {
		cached, ok, err := r.cache.Get(ctx, key)
		if err != nil {
			logger.Warn().Err(err).Msg("search cache read failed")
		} else if ok {
			logger.Debug().Int("results", len(cached)).Msg("search cache hit")
			return cached, nil
		}
	}

	results, err := r.searchProvider(ctx, enhanced, maxResults)
	if err != nil {
		return nil, err
	}
	if len(results) > maxResults {
		results = results[:maxResults]
	}

	r.enrich(ctx, results)

	if r.cache != nil && len(results) > 0 {
		if err := r.cache.Set(ctx, key, results, r.opts.CacheTTL); err != nil {
			logger.Warn().Err(err).Msg("search cache write failed")
		}
	}

	return results, nil
}

func (r *Retriever) searchProvider(ctx context.Context, query string, n int) ([]core.SearchResult, error) {
	if r.opts.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.SearchTimeout)
		defer cancel()
	}
	return r.provider.Search(ctx, query, n)
}

// enrich fills AdditionalContent for the first EnrichTop results in place.
// Each fetch has its own timeout and never fails the batch.
func (r *Retriever) enrich(ctx context.Context, results []core.SearchResult) {
	if r.fetcher == nil {
		return
	}

	n := min(r.opts.EnrichTop, len(results))
	if n <= 0 {
		return
	}

	logger := log.FromCtx(ctx)

	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			fetchCtx := ctx
			if r.opts.PageFetchTimeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, r.opts.PageFetchTimeout)
				defer cancel()
			}

			page, err := r.fetcher.FetchPage(fetchCtx, results[i].Link)
			if err != nil {
				logger.Warn().Err(err).Str("url", results[i].Link).Msg("could not fetch additional content")
				return nil
			}

			results[i].AdditionalContent = ExtractParagraphs(page)
			return nil
		})
	}
	_ = g.Wait()
}

// CacheKey derives a cache key from the enhanced query and result count.
// Case and repeated whitespace do not change the key.
func CacheKey(query string, maxResults int) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	sum := sha256.Sum256([]byte(normalized + "|" + strconv.Itoa(maxResults)))
	return hex.EncodeToString(sum[:])
}
