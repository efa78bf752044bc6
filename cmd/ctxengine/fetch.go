package main

import (
	"fmt"

	"github.com/sandevgo/ctxengine/internal/config"
	"github.com/sandevgo/ctxengine/internal/service/websearch"
	"github.com/sandevgo/ctxengine/pkg/conv"
	"github.com/spf13/cobra"
)

var fullPage bool

var fetchCmd = &cobra.Command{
	Use:   "fetch <url>",
	Short: "Show the additional content a search result page would contribute",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		page, err := newFetcher(config.NewSearchConfig(ctx)).FetchPage(ctx, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !fullPage {
			fmt.Fprintln(out, websearch.ExtractParagraphs(page))
			return nil
		}

		text, err := conv.HTMLToText(page, false)
		if err != nil {
			return fmt.Errorf("failed to render page: %w", err)
		}
		fmt.Fprintln(out, text)
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&fullPage, "full", false, "print the whole page as text instead of the extracted paragraphs")

	rootCmd.AddCommand(fetchCmd)
}
