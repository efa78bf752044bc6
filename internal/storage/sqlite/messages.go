package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/sandevgo/ctxengine/pkg/log"
)

func (s *Store) AddMessage(ctx context.Context, msg core.Message) (int64, error) {
	createdAt := msg.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := s.q.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, user_id, role, content, context_relevance, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ConversationID, msg.UserID, msg.Role, msg.Content, msg.ContextRelevance, createdAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert message: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) ListRecentMessages(ctx context.Context, conversationID int64, limit int) ([]core.Message, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, conversation_id, user_id, role, content, context_relevance, created_at
		FROM messages
		WHERE conversation_id = ?
		ORDER BY id DESC
		LIMIT ?`,
		conversationID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []core.Message
	for rows.Next() {
		var m core.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.UserID, &m.Role, &m.Content, &m.ContextRelevance, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(messages)).Int64("conversation_id", conversationID).Msg("loaded recent messages")
	return messages, nil
}

// SearchAssistantMessagesByKeyword matches assistant replies from the user's
// other conversations whose content contains every keyword in order.
func (s *Store) SearchAssistantMessagesByKeyword(ctx context.Context, userID, excludeConversationID int64, keywords []string, limit int) ([]core.RelatedMessage, error) {
	if len(keywords) == 0 || limit <= 0 {
		return nil, nil
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT m.conversation_id, c.title, m.content, m.created_at
		FROM messages m
		JOIN conversations c ON m.conversation_id = c.id
		WHERE m.user_id = ?
			AND m.role = 'assistant'
			AND m.conversation_id != ?
			AND m.content LIKE ? ESCAPE '\'
		ORDER BY m.created_at DESC, m.id DESC
		LIMIT ?`,
		userID, excludeConversationID, likePattern(keywords), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search messages: %w", err)
	}
	defer rows.Close()

	var related []core.RelatedMessage
	for rows.Next() {
		var r core.RelatedMessage
		if err := rows.Scan(&r.ConversationID, &r.ConversationTitle, &r.Content, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan related message: %w", err)
		}
		related = append(related, r)
	}
	return related, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(keywords []string) string {
	escaped := make([]string, len(keywords))
	for i, k := range keywords {
		escaped[i] = likeEscaper.Replace(k)
	}
	return "%" + strings.Join(escaped, "%") + "%"
}
