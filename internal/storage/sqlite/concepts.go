package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
)

const conceptColumns = `conversation_id, key_concept, relevance_score, usage_count, last_used`

func (s *Store) GetConceptMemory(ctx context.Context, conversationID int64) ([]core.ConceptMemoryEntry, error) {
	return s.queryConcepts(ctx,
		`SELECT `+conceptColumns+` FROM context_memory WHERE conversation_id = ? ORDER BY id`,
		conversationID,
	)
}

func (s *Store) GetConceptMemoryByKey(ctx context.Context, conversationID int64, concept string) (*core.ConceptMemoryEntry, error) {
	var e core.ConceptMemoryEntry
	err := s.q.QueryRowContext(ctx,
		`SELECT `+conceptColumns+` FROM context_memory WHERE conversation_id = ? AND key_concept = ?`,
		conversationID, concept,
	).Scan(&e.ConversationID, &e.KeyConcept, &e.RelevanceScore, &e.UsageCount, &e.LastUsed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query concept %q: %w", concept, err)
	}
	return &e, nil
}

func (s *Store) UpsertConceptMemory(ctx context.Context, entry core.ConceptMemoryEntry) error {
	lastUsed := entry.LastUsed
	if lastUsed.IsZero() {
		lastUsed = time.Now().UTC()
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO context_memory (conversation_id, key_concept, relevance_score, usage_count, last_used)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (conversation_id, key_concept) DO UPDATE SET
			relevance_score = excluded.relevance_score,
			usage_count = excluded.usage_count,
			last_used = excluded.last_used,
			updated_at = CURRENT_TIMESTAMP`,
		entry.ConversationID, entry.KeyConcept, entry.RelevanceScore, entry.UsageCount, lastUsed,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert concept %q: %w", entry.KeyConcept, err)
	}
	return nil
}

func (s *Store) TopConcepts(ctx context.Context, conversationID int64, limit int) ([]core.ConceptMemoryEntry, error) {
	return s.queryConcepts(ctx, `
		SELECT `+conceptColumns+`
		FROM context_memory
		WHERE conversation_id = ?
		ORDER BY relevance_score DESC, usage_count DESC, id ASC
		LIMIT ?`,
		conversationID, limit,
	)
}

func (s *Store) queryConcepts(ctx context.Context, query string, args ...any) ([]core.ConceptMemoryEntry, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query concept memory: %w", err)
	}
	defer rows.Close()

	var entries []core.ConceptMemoryEntry
	for rows.Next() {
		var e core.ConceptMemoryEntry
		if err := rows.Scan(&e.ConversationID, &e.KeyConcept, &e.RelevanceScore, &e.UsageCount, &e.LastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan concept: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
