package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := NewDB(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewStore(db)
}

func TestConversations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id, err := s.CreateConversation(ctx, 7, "")
	require.NoError(t, err)

	conv, err := s.GetConversation(ctx, id, 7)
	require.NoError(t, err)
	assert.Equal(t, "New Chat", conv.Title)
	assert.Nil(t, conv.LastMessageAt)

	_, err = s.GetConversation(ctx, id, 8)
	assert.ErrorIs(t, err, core.ErrConversationNotFound)

	require.NoError(t, s.TouchConversation(ctx, id))
	conv, err = s.GetConversation(ctx, id, 7)
	require.NoError(t, err)
	assert.NotNil(t, conv.LastMessageAt)
}

func TestListRecentMessages_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	convID, err := s.CreateConversation(ctx, 1, "chat")
	require.NoError(t, err)

	for _, content := range []string{"one", "two", "three", "four", "five", "six"} {
		_, err := s.AddMessage(ctx, core.Message{
			ConversationID:   convID,
			UserID:           1,
			Role:             core.RoleUser,
			Content:          content,
			ContextRelevance: 0.5,
		})
		require.NoError(t, err)
	}

	msgs, err := s.ListRecentMessages(ctx, convID, 5)
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	assert.Equal(t, "six", msgs[0].Content)
	assert.Equal(t, "two", msgs[4].Content)
	assert.InDelta(t, 0.5, msgs[0].ContextRelevance, 1e-9)
	assert.False(t, msgs[0].CreatedAt.IsZero())
}

func TestSearchAssistantMessagesByKeyword(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	current, err := s.CreateConversation(ctx, 1, "current")
	require.NoError(t, err)
	other, err := s.CreateConversation(ctx, 1, "Monsoon planning")
	require.NoError(t, err)
	foreign, err := s.CreateConversation(ctx, 2, "someone else")
	require.NoError(t, err)

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	add := func(conv, user int64, role, content string, offset time.Duration) {
		_, err := s.AddMessage(ctx, core.Message{
			ConversationID: conv,
			UserID:         user,
			Role:           role,
			Content:        content,
			CreatedAt:      base.Add(offset),
		})
		require.NoError(t, err)
	}

	add(other, 1, core.RoleAssistant, "The monsoon reaches Kerala in early June.", 0)
	add(other, 1, core.RoleAssistant, "Kerala sees the monsoon first.", time.Minute)
	add(other, 1, core.RoleUser, "monsoon kerala question", 2*time.Minute)
	add(current, 1, core.RoleAssistant, "monsoon in kerala, current chat", 3*time.Minute)
	add(foreign, 2, core.RoleAssistant, "monsoon kerala for user two", 4*time.Minute)

	related, err := s.SearchAssistantMessagesByKeyword(ctx, 1, current, []string{"monsoon", "kerala"}, 3)
	require.NoError(t, err)
	require.Len(t, related, 1, "keywords must appear in order")
	assert.Equal(t, "Monsoon planning", related[0].ConversationTitle)
	assert.Equal(t, "The monsoon reaches Kerala in early June.", related[0].Content)
	assert.Equal(t, other, related[0].ConversationID)

	related, err = s.SearchAssistantMessagesByKeyword(ctx, 1, current, []string{"kerala"}, 3)
	require.NoError(t, err)
	require.Len(t, related, 2)
	assert.Equal(t, "Kerala sees the monsoon first.", related[0].Content, "newest first")

	related, err = s.SearchAssistantMessagesByKeyword(ctx, 1, current, nil, 3)
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestLikePattern_EscapesWildcards(t *testing.T) {
	assert.Equal(t, `%snake\_case%100\%%`, likePattern([]string{"snake_case", "100%"}))
	assert.Equal(t, `%monsoon%kerala%`, likePattern([]string{"monsoon", "kerala"}))
}

func TestConceptMemory_UpsertAndOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	convID, err := s.CreateConversation(ctx, 1, "chat")
	require.NoError(t, err)

	missing, err := s.GetConceptMemoryByKey(ctx, convID, "monsoon")
	require.NoError(t, err)
	assert.Nil(t, missing)

	entries := []core.ConceptMemoryEntry{
		{ConversationID: convID, KeyConcept: "monsoon", RelevanceScore: 0.8, UsageCount: 4},
		{ConversationID: convID, KeyConcept: "kerala", RelevanceScore: 0.65, UsageCount: 1},
		{ConversationID: convID, KeyConcept: "rain", RelevanceScore: 0.8, UsageCount: 9},
	}
	for _, e := range entries {
		require.NoError(t, s.UpsertConceptMemory(ctx, e))
	}

	require.NoError(t, s.UpsertConceptMemory(ctx, core.ConceptMemoryEntry{
		ConversationID: convID, KeyConcept: "kerala", RelevanceScore: 0.7, UsageCount: 2,
	}))

	got, err := s.GetConceptMemoryByKey(ctx, convID, "kerala")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 0.7, got.RelevanceScore, 1e-9)
	assert.Equal(t, 2, got.UsageCount)

	all, err := s.GetConceptMemory(ctx, convID)
	require.NoError(t, err)
	assert.Len(t, all, 3, "one row per concept")

	top, err := s.TopConcepts(ctx, convID, 10)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "rain", top[0].KeyConcept, "ties broken by usage count")
	assert.Equal(t, "monsoon", top[1].KeyConcept)
	assert.Equal(t, "kerala", top[2].KeyConcept)

	top, err = s.TopConcepts(ctx, convID, 1)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestDeleteConversation_CascadesConceptMemory(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	convID, err := s.CreateConversation(ctx, 1, "chat")
	require.NoError(t, err)
	_, err = s.AddMessage(ctx, core.Message{ConversationID: convID, UserID: 1, Role: core.RoleUser, Content: "hello there"})
	require.NoError(t, err)
	require.NoError(t, s.UpsertConceptMemory(ctx, core.ConceptMemoryEntry{
		ConversationID: convID, KeyConcept: "hello", RelevanceScore: 1, UsageCount: 1,
	}))

	assert.ErrorIs(t, s.DeleteConversation(ctx, convID, 2), core.ErrConversationNotFound)
	require.NoError(t, s.DeleteConversation(ctx, convID, 1))

	entries, err := s.GetConceptMemory(ctx, convID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	msgs, err := s.ListRecentMessages(ctx, convID, 5)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	convID, err := s.CreateConversation(ctx, 1, "chat")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithTx(ctx, func(tx core.Store) error {
		if err := tx.UpsertConceptMemory(ctx, core.ConceptMemoryEntry{
			ConversationID: convID, KeyConcept: "ghost", RelevanceScore: 1, UsageCount: 1,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.GetConceptMemoryByKey(ctx, convID, "ghost")
	require.NoError(t, err)
	assert.Nil(t, got)

	err = s.WithTx(ctx, func(tx core.Store) error {
		return tx.WithTx(ctx, func(inner core.Store) error {
			return inner.UpsertConceptMemory(ctx, core.ConceptMemoryEntry{
				ConversationID: convID, KeyConcept: "kept", RelevanceScore: 1, UsageCount: 1,
			})
		})
	})
	require.NoError(t, err)

	got, err = s.GetConceptMemoryByKey(ctx, convID, "kept")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
