package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/sandevgo/ctxengine/internal/service/ui"
	"github.com/sandevgo/ctxengine/pkg/conv"
	"github.com/sandevgo/ctxengine/pkg/log"
	"github.com/spf13/cobra"
)

var (
	asHTML bool
	asJSON bool
)

var contextCmd = &cobra.Command{
	Use:   "context <query>",
	Short: "Build the retrieval context for a query in a conversation",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if asHTML && asJSON {
			return fmt.Errorf("--html and --json are mutually exclusive")
		}

		return withApp(cmd.Context(), func(ctx context.Context, a *App) error {
			if _, err := a.Store.GetConversation(ctx, conversationID, userID); err != nil {
				return err
			}

			res := a.Engine.BuildContext(ctx, strings.Join(args, " "), userID, conversationID)
			log.FromCtx(ctx).Debug().
				Bool("has_web_results", res.HasWebResults).
				Int("length", len(res.Context)).
				Msg("context built")

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				recent := make([]recentMessage, 0, len(res.Bundle.RecentMessages))
				for _, m := range res.Bundle.RecentMessages {
					recent = append(recent, recentMessage{Role: m.Role, Content: m.Content, CreatedAt: m.CreatedAt})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					RecentMessages []recentMessage `json:"recent_messages"`
					Context        string          `json:"context"`
					HasWebResults  bool            `json:"has_web_results"`
				}{recent, res.Context, res.HasWebResults})
			case asHTML:
				fmt.Fprint(out, conv.MarkdownToHTML([]byte(res.Context)))
			default:
				printRecent(out, res.Bundle.RecentMessages)
				fmt.Fprint(out, res.Context)
			}
			return nil
		})
	},
}

type recentMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// printRecent writes the conversation tail, oldest first, ahead of the context.
func printRecent(w io.Writer, msgs []core.Message) {
	if len(msgs) == 0 {
		return
	}
	fmt.Fprintln(w, ui.DescStyle.Render("Recent messages:"))
	for _, m := range msgs {
		fmt.Fprintf(w, "%s: %s\n", ui.ValueStyle.Render(m.Role), m.Content)
	}
	fmt.Fprintln(w)
}

func init() {
	contextCmd.Flags().Int64VarP(&userID, "user", "u", 1, "user id")
	contextCmd.Flags().Int64VarP(&conversationID, "conversation", "c", 0, "conversation id")
	contextCmd.Flags().BoolVar(&asHTML, "html", false, "render the context as sanitized HTML")
	contextCmd.Flags().BoolVar(&asJSON, "json", false, "print recent messages, context and web flag as JSON")
	_ = contextCmd.MarkFlagRequired("conversation")

	rootCmd.AddCommand(contextCmd)
}
