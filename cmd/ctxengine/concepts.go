package main

import (
	"context"
	"fmt"

	"github.com/sandevgo/ctxengine/internal/service/ui"
	"github.com/spf13/cobra"
)

var conceptLimit int

var conceptsCmd = &cobra.Command{
	Use:   "concepts",
	Short: "List the top concepts of a conversation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *App) error {
			if _, err := a.Store.GetConversation(ctx, conversationID, userID); err != nil {
				return err
			}

			entries, err := a.Memory.TopConcepts(ctx, conversationID, conceptLimit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, ui.DescStyle.Render("no concepts yet"))
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%-24s %s  used %d  last %s\n",
					e.KeyConcept,
					ui.ValueStyle.Render(fmt.Sprintf("%.2f", e.RelevanceScore)),
					e.UsageCount,
					e.LastUsed.Format("02/01/2006 15:04"))
			}
			return nil
		})
	},
}

func init() {
	conceptsCmd.Flags().Int64VarP(&userID, "user", "u", 1, "owner user id")
	conceptsCmd.Flags().Int64VarP(&conversationID, "conversation", "c", 0, "conversation id")
	conceptsCmd.Flags().IntVarP(&conceptLimit, "limit", "n", 10, "maximum concepts to list")
	_ = conceptsCmd.MarkFlagRequired("conversation")

	rootCmd.AddCommand(conceptsCmd)
}
