package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
)

const defaultConversationTitle = "New Chat"

func (s *Store) CreateConversation(ctx context.Context, userID int64, title string) (int64, error) {
	if title == "" {
		title = defaultConversationTitle
	}

	res, err := s.q.ExecContext(ctx,
		`INSERT INTO conversations (user_id, title, created_at) VALUES (?, ?, ?)`,
		userID, title, time.Now().UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert conversation: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) GetConversation(ctx context.Context, conversationID, userID int64) (core.Conversation, error) {
	var (
		c        core.Conversation
		lastUsed sql.NullTime
	)
	err := s.q.QueryRowContext(ctx,
		`SELECT id, user_id, title, last_message_at, created_at FROM conversations WHERE id = ? AND user_id = ?`,
		conversationID, userID,
	).Scan(&c.ID, &c.UserID, &c.Title, &lastUsed, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Conversation{}, fmt.Errorf("conversation %d: %w", conversationID, core.ErrConversationNotFound)
	}
	if err != nil {
		return core.Conversation{}, fmt.Errorf("failed to query conversation: %w", err)
	}

	if lastUsed.Valid {
		c.LastMessageAt = &lastUsed.Time
	}
	return c, nil
}

func (s *Store) TouchConversation(ctx context.Context, conversationID int64) error {
	_, err := s.q.ExecContext(ctx,
		`UPDATE conversations SET last_message_at = ? WHERE id = ?`,
		time.Now().UTC(), conversationID,
	)
	if err != nil {
		return fmt.Errorf("failed to touch conversation: %w", err)
	}
	return nil
}

// DeleteConversation removes the conversation with its messages and concept
// memory.
func (s *Store) DeleteConversation(ctx context.Context, conversationID, userID int64) error {
	res, err := s.q.ExecContext(ctx,
		`DELETE FROM conversations WHERE id = ? AND user_id = ?`,
		conversationID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("conversation %d: %w", conversationID, core.ErrConversationNotFound)
	}
	return nil
}
