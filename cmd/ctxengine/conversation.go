package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sandevgo/ctxengine/internal/service/ui"
	"github.com/sandevgo/ctxengine/pkg/log"
	"github.com/spf13/cobra"
)

var (
	userID         int64
	conversationID int64
	title          string
)

var conversationCmd = &cobra.Command{
	Use:   "conversation",
	Short: "Create or delete conversations",
}

var conversationCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a conversation and print its id",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, a *App) error {
			id, err := a.Store.CreateConversation(ctx, userID, title)
			if err != nil {
				return err
			}

			log.FromCtx(ctx).Info().Int64("conversation_id", id).Int64("user_id", userID).Msg("conversation created")
			fmt.Fprintln(cmd.OutOrStdout(), ui.ValueStyle.Render(strconv.FormatInt(id, 10)))
			return nil
		})
	},
}

var conversationDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a conversation with its messages and concept memory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid conversation id %q: %w", args[0], err)
		}

		return withApp(cmd.Context(), func(ctx context.Context, a *App) error {
			if err := a.Store.DeleteConversation(ctx, id, userID); err != nil {
				return err
			}
			log.FromCtx(ctx).Info().Int64("conversation_id", id).Msg("conversation deleted")
			return nil
		})
	},
}

func init() {
	conversationCmd.PersistentFlags().Int64VarP(&userID, "user", "u", 1, "owner user id")
	conversationCreateCmd.Flags().StringVarP(&title, "title", "t", "", "conversation title (default \"New Chat\")")

	conversationCmd.AddCommand(conversationCreateCmd, conversationDeleteCmd)
	rootCmd.AddCommand(conversationCmd)
}
