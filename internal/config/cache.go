package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/ctxengine/pkg/log"
)

type CacheConfig struct {
	RedisURL string        `env:"REDIS_URL"`
	TTL      time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"15m"`
	Prefix   string        `env:"SEARCH_CACHE_PREFIX" envDefault:"ctxengine:search:"`
}

func NewCacheConfig(ctx context.Context) *CacheConfig {
	c := &CacheConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Cache config")
	}
	return c
}

func (c CacheConfig) IsEnabled() bool {
	return c.RedisURL != ""
}
