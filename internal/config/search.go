package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/ctxengine/pkg/log"
)

type SearchConfig struct {
	APIKey   string `env:"GOOGLE_SEARCH_API_KEY"`
	EngineID string `env:"GOOGLE_SEARCH_ENGINE_ID"`

	Results          int           `env:"SEARCH_RESULTS" envDefault:"4"`
	EnrichTop        int           `env:"SEARCH_ENRICH_TOP" envDefault:"2"`
	PageFetchTimeout time.Duration `env:"PAGE_FETCH_TIMEOUT" envDefault:"5s"`
	SearchTimeout    time.Duration `env:"SEARCH_TIMEOUT" envDefault:"10s"`
	DateRestrict     string        `env:"SEARCH_DATE_RESTRICT" envDefault:"y1"`

	// Locale is appended to locale-sensitive queries that mention none of
	// LocaleAliases.
	Locale        string   `env:"SEARCH_LOCALE" envDefault:"India"`
	LocaleAliases []string `env:"SEARCH_LOCALE_ALIASES" envDefault:"india,indian" envSeparator:","`
}

func NewSearchConfig(ctx context.Context) *SearchConfig {
	c := &SearchConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Search config")
	}
	return c
}

func (c SearchConfig) IsEnabled() bool {
	return c.APIKey != "" && c.EngineID != ""
}
