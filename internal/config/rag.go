package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/ctxengine/pkg/log"
)

type RAGConfig struct {
	RecentMessages  int `env:"RAG_RECENT_MESSAGES" envDefault:"5"`
	TopConcepts     int `env:"RAG_TOP_CONCEPTS" envDefault:"10"`
	RelatedMessages int `env:"RAG_RELATED_MESSAGES" envDefault:"3"`
	RelatedTruncate int `env:"RAG_RELATED_TRUNCATE" envDefault:"300"`

	// MaxContextTokens of 0 disables budgeting.
	MaxContextTokens int    `env:"RAG_MAX_CONTEXT_TOKENS" envDefault:"3000"`
	TokenEncoding    string `env:"RAG_TOKEN_ENCODING" envDefault:"cl100k_base"`
}

func NewRAGConfig(ctx context.Context) *RAGConfig {
	cfg := &RAGConfig{}
	if err := env.Parse(cfg); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse RAG config")
	}
	return cfg
}

// DefaultRAGConfig returns the envDefault values without reading the
// environment.
func DefaultRAGConfig() RAGConfig {
	return RAGConfig{
		RecentMessages:   5,
		TopConcepts:      10,
		RelatedMessages:  3,
		RelatedTruncate:  300,
		MaxContextTokens: 3000,
		TokenEncoding:    "cl100k_base",
	}
}
