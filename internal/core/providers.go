package core

import (
	"context"
	"time"
)

type SearchProvider interface {
	Search(ctx context.Context, query string, numResults int) ([]SearchResult, error)
}

type PageFetcher interface {
	FetchPage(ctx context.Context, url string) (string, error)
}

type SearchCache interface {
	Get(ctx context.Context, key string) ([]SearchResult, bool, error)
	Set(ctx context.Context, key string, results []SearchResult, ttl time.Duration) error
}

type ConceptExtractor interface {
	Extract(content string) []string
	Keywords(query string) []string
}

type QueryClassifier interface {
	NeedsRecentInfo(query string) bool
	EnhanceQuery(query string) string
}

type TokenCounter interface {
	Count(text string) int
	// Truncate cuts text to at most limit tokens.
	Truncate(text string, limit int) string
}
