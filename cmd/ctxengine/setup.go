package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/ctxengine/internal/config"
	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/sandevgo/ctxengine/internal/providers/fetch"
	"github.com/sandevgo/ctxengine/internal/providers/google"
	"github.com/sandevgo/ctxengine/internal/service/concept"
	"github.com/sandevgo/ctxengine/internal/service/memory"
	"github.com/sandevgo/ctxengine/internal/service/query"
	"github.com/sandevgo/ctxengine/internal/service/rag"
	"github.com/sandevgo/ctxengine/internal/service/websearch"
	"github.com/sandevgo/ctxengine/internal/storage/inmem"
	redisstore "github.com/sandevgo/ctxengine/internal/storage/redis"
	"github.com/sandevgo/ctxengine/internal/storage/sqlite"
	"github.com/sandevgo/ctxengine/pkg/log"
	"github.com/sandevgo/ctxengine/pkg/retry"
	"github.com/sandevgo/ctxengine/pkg/srv"
)

// App is the wired engine plus everything that needs closing.
type App struct {
	AppCfg    *config.AppConfig
	SearchCfg *config.SearchConfig
	RAGCfg    *config.RAGConfig

	Store      *sqlite.Store
	Memory     *memory.Memory
	Classifier *query.Classifier
	Engine     *rag.Engine

	services []srv.Service
}

func NewApp(ctx context.Context) (*App, error) {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		return nil, err
	}

	// 1. Configuration
	a := &App{
		AppCfg:    config.NewAppConfig(ctx),
		SearchCfg: config.NewSearchConfig(ctx),
		RAGCfg:    config.NewRAGConfig(ctx),
	}

	// 2. Storage
	db, err := sqlite.NewDB(ctx, a.AppCfg.GetDatabasePath())
	if err != nil {
		return nil, err
	}
	a.Store = sqlite.NewStore(db)
	a.services = append(a.services, srv.NewCleanup(a.Store.Close))

	// 3. Memory and classification
	extractor := concept.NewExtractor()
	a.Memory = memory.NewMemory(a.Store, extractor)
	a.Classifier = newClassifier(a.SearchCfg)

	// 4. Fusion engine
	a.Engine = rag.NewEngine(a.RAGCfg, a.Store, extractor, a.Classifier)

	if a.RAGCfg.MaxContextTokens > 0 {
		a.Engine.WithTokenCounter(rag.NewTokenizer(ctx, a.RAGCfg.TokenEncoding))
	}

	// 5. Web search
	retriever, err := a.initWebSearch(ctx)
	switch {
	case errors.Is(err, core.ErrSearchDisabled):
		logger.Debug().Msg("web search not configured, context will use conversation memory only")
	case err != nil:
		a.Close(ctx)
		return nil, err
	default:
		a.Engine.WithWebSearch(retriever, a.SearchCfg.Results)
	}

	return a, nil
}

func (a *App) Close(ctx context.Context) {
	srv.Shutdown(ctx, a.services)
}

// newFetcher bounds each page fetch with PageFetchTimeout; retries happen
// inside that window.
func newFetcher(cfg *config.SearchConfig) *fetch.Fetcher {
	return fetch.NewFetcherWithTimeout(cfg.PageFetchTimeout, &retry.Config{
		MaxRetries:    2,
		BackoffFactor: 2,
		InitialDelay:  200 * time.Millisecond,
		MaxDelay:      time.Second,
		Jitter:        50 * time.Millisecond,
	})
}

func newClassifier(cfg *config.SearchConfig) *query.Classifier {
	return query.NewClassifier(cfg.Locale, cfg.LocaleAliases)
}

func (a *App) initWebSearch(ctx context.Context) (*websearch.Retriever, error) {
	if !a.SearchCfg.IsEnabled() {
		return nil, core.ErrSearchDisabled
	}

	provider, err := google.NewSearch(ctx, google.Options{
		APIKey:       a.SearchCfg.APIKey,
		EngineID:     a.SearchCfg.EngineID,
		DateRestrict: a.SearchCfg.DateRestrict,
	})
	if err != nil {
		return nil, err
	}

	fetcher := newFetcher(a.SearchCfg)

	cacheCfg := config.NewCacheConfig(ctx)
	var cache core.SearchCache = inmem.NewSearchCache()
	if cacheCfg.IsEnabled() {
		c, err := redisstore.NewSearchCache(ctx, cacheCfg.RedisURL, cacheCfg.Prefix)
		if err != nil {
			log.FromCtx(ctx).Warn().Err(err).Msg("redis search cache unavailable, caching in memory")
		} else {
			cache = c
			a.services = append(a.services, srv.NewCleanup(c.Close))
		}
	}

	return websearch.NewRetriever(provider, fetcher, a.Classifier, cache, websearch.Options{
		EnrichTop:        a.SearchCfg.EnrichTop,
		PageFetchTimeout: a.SearchCfg.PageFetchTimeout,
		SearchTimeout:    a.SearchCfg.SearchTimeout,
		CacheTTL:         cacheCfg.TTL,
	}), nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

// withApp runs fn with a logger and a wired App, closing both afterwards.
func withApp(ctx context.Context, fn func(ctx context.Context, a *App) error) error {
	ctx, flushLog := setupLogger(ctx)
	defer flushLog()

	a, err := NewApp(ctx)
	if err != nil {
		log.FromCtx(ctx).Error().Err(err).Msg("failed to initialize")
		return err
	}
	defer a.Close(ctx)

	return fn(ctx, a)
}
