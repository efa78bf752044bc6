package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sandevgo/ctxengine/internal/config"
	"github.com/sandevgo/ctxengine/internal/storage/sqlite"
	"github.com/sandevgo/ctxengine/pkg/env"
	"github.com/sandevgo/ctxengine/pkg/log"
	"github.com/spf13/cobra"
)

var (
	force          bool
	googleAPIKey   string
	googleEngineID string
	redisURL       string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the runtime directory, .env file and database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		logger := log.FromCtx(ctx)

		appCfg := config.NewAppConfig(ctx)
		searchCfg := config.NewSearchConfig(ctx)
		cacheCfg := config.NewCacheConfig(ctx)
		ragCfg := config.NewRAGConfig(ctx)

		if googleAPIKey != "" {
			searchCfg.APIKey = googleAPIKey
		}
		if googleEngineID != "" {
			searchCfg.EngineID = googleEngineID
		}
		if redisURL != "" {
			cacheCfg.RedisURL = redisURL
		}

		if err := os.MkdirAll(appCfg.GetRuntimePath(), 0755); err != nil {
			return fmt.Errorf("failed to create runtime directory: %w", err)
		}

		envPath := appCfg.GetEnvPath()
		if _, err := os.Stat(envPath); err == nil && !force {
			return fmt.Errorf(".env file already exists at %s (use --force to overwrite)", envPath)
		}

		var content strings.Builder
		for _, c := range []any{appCfg, searchCfg, cacheCfg, ragCfg} {
			section, err := env.MarshalEnv(c)
			if err != nil {
				return err
			}
			content.WriteString(section)
		}

		if err := os.WriteFile(envPath, []byte(content.String()), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", envPath, err)
		}
		logger.Info().Str("path", envPath).Msg("configuration saved")

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		logger.Info().Str("path", appCfg.GetDatabasePath()).Msg("database ready")
		if !searchCfg.IsEnabled() {
			logger.Warn().Msg("web search is not configured; set GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_ENGINE_ID to enable it")
		}
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing .env file")
	initCmd.Flags().StringVar(&googleAPIKey, "google-api-key", "", "Custom Search API key")
	initCmd.Flags().StringVar(&googleEngineID, "google-engine-id", "", "Programmable Search Engine id")
	initCmd.Flags().StringVar(&redisURL, "redis-url", "", "redis:// URL of the search result cache")

	rootCmd.AddCommand(initCmd)
}
