package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/sandevgo/ctxengine/internal/service/ui"
	"github.com/spf13/cobra"
)

var role string

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Record conversation messages",
}

var messageAddCmd = &cobra.Command{
	Use:   "add <content>",
	Short: "Store a message, score its relevance and update concept memory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *App) error {
			msg, concepts, err := a.Memory.RecordMessage(ctx, core.Message{
				ConversationID: conversationID,
				UserID:         userID,
				Role:           role,
				Content:        strings.Join(args, " "),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "message %s relevance %s\n",
				ui.ValueStyle.Render(fmt.Sprint(msg.ID)),
				ui.ValueStyle.Render(fmt.Sprintf("%.2f", msg.ContextRelevance)))
			if len(concepts) > 0 {
				fmt.Fprintf(out, "concepts: %s\n", strings.Join(concepts, ", "))
			}
			return nil
		})
	},
}

func init() {
	messageAddCmd.Flags().Int64VarP(&userID, "user", "u", 1, "author user id")
	messageAddCmd.Flags().Int64VarP(&conversationID, "conversation", "c", 0, "conversation id")
	messageAddCmd.Flags().StringVarP(&role, "role", "r", core.RoleUser, "message role (user or assistant)")
	_ = messageAddCmd.MarkFlagRequired("conversation")

	messageCmd.AddCommand(messageAddCmd)
	rootCmd.AddCommand(messageCmd)
}
