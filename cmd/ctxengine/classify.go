package main

import (
	"fmt"
	"strings"

	"github.com/sandevgo/ctxengine/internal/config"
	"github.com/sandevgo/ctxengine/internal/service/ui"
	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <query>",
	Short: "Show whether a query needs web search and how it would be rewritten",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
			return err
		}

		q := strings.Join(args, " ")
		classifier := newClassifier(config.NewSearchConfig(ctx))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "needs recent info: %s\n", ui.ValueStyle.Render(fmt.Sprint(classifier.NeedsRecentInfo(q))))
		fmt.Fprintf(out, "search query:      %s\n", classifier.EnhanceQuery(q))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
