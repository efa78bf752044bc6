package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/sandevgo/ctxengine/pkg/log"
)

// Memory owns the per-conversation concept statistics.
type Memory struct {
	store     core.Store
	extractor core.ConceptExtractor
	now       func() time.Time
}

func NewMemory(store core.Store, extractor core.ConceptExtractor) *Memory {
	return &Memory{
		store:     store,
		extractor: extractor,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source used for LastUsed.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) ScoreRelevance(ctx context.Context, conversationID int64, concepts []string) (float64, error) {
	return scoreWith(ctx, m.store, conversationID, concepts)
}

// UpdateMemory folds relevance into every concept in one transaction. Each
// concept is an independent read-modify-write; repeated concepts are applied
// repeatedly.
func (m *Memory) UpdateMemory(ctx context.Context, conversationID int64, concepts []string, relevance float64) error {
	if len(concepts) == 0 {
		return nil
	}
	return m.store.WithTx(ctx, func(tx core.Store) error {
		return m.updateWith(ctx, tx, conversationID, concepts, relevance)
	})
}

// RecordMessage stores a message together with its context relevance and
// updates concept memory. The conversation must belong to msg.UserID.
// Nothing is written if any step fails.
func (m *Memory) RecordMessage(ctx context.Context, msg core.Message) (core.Message, []string, error) {
	if msg.Role != core.RoleUser && msg.Role != core.RoleAssistant {
		return core.Message{}, nil, fmt.Errorf("invalid role %q", msg.Role)
	}
	if strings.TrimSpace(msg.Content) == "" {
		return core.Message{}, nil, fmt.Errorf("empty message content")
	}

	concepts := m.extractor.Extract(msg.Content)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = m.now()
	}

	err := m.store.WithTx(ctx, func(tx core.Store) error {
		if _, err := tx.GetConversation(ctx, msg.ConversationID, msg.UserID); err != nil {
			return err
		}

		relevance, err := scoreWith(ctx, tx, msg.ConversationID, concepts)
		if err != nil {
			return err
		}
		msg.ContextRelevance = relevance

		id, err := tx.AddMessage(ctx, msg)
		if err != nil {
			return err
		}
		msg.ID = id

		if err := m.updateWith(ctx, tx, msg.ConversationID, concepts, relevance); err != nil {
			return err
		}
		return tx.TouchConversation(ctx, msg.ConversationID)
	})
	if err != nil {
		return core.Message{}, nil, fmt.Errorf("failed to record message: %w", err)
	}

	log.FromCtx(ctx).Debug().
		Int64("conversation_id", msg.ConversationID).
		Int64("message_id", msg.ID).
		Float64("relevance", msg.ContextRelevance).
		Strs("concepts", concepts).
		Msg("message recorded")

	return msg, concepts, nil
}

func (m *Memory) TopConcepts(ctx context.Context, conversationID int64, limit int) ([]core.ConceptMemoryEntry, error) {
	return m.store.TopConcepts(ctx, conversationID, limit)
}

func (m *Memory) updateWith(ctx context.Context, tx core.Store, conversationID int64, concepts []string, relevance float64) error {
	now := m.now()
	for _, concept := range concepts {
		existing, err := tx.GetConceptMemoryByKey(ctx, conversationID, concept)
		if err != nil {
			return err
		}
		if err := tx.UpsertConceptMemory(ctx, NextEntry(existing, conversationID, concept, relevance, now)); err != nil {
			return err
		}
	}
	return nil
}

func scoreWith(ctx context.Context, repo core.ConceptRepository, conversationID int64, concepts []string) (float64, error) {
	if len(concepts) == 0 {
		return FreshRelevance, nil
	}
	entries, err := repo.GetConceptMemory(ctx, conversationID)
	if err != nil {
		return 0, fmt.Errorf("failed to load concept memory: %w", err)
	}
	return ScoreRelevance(entries, concepts), nil
}
