package core

import (
	"context"
)

type ConversationRepository interface {
	CreateConversation(ctx context.Context, userID int64, title string) (int64, error)
	// GetConversation returns ErrConversationNotFound when the conversation
	// does not exist or belongs to another user.
	GetConversation(ctx context.Context, conversationID, userID int64) (Conversation, error)
	TouchConversation(ctx context.Context, conversationID int64) error
	DeleteConversation(ctx context.Context, conversationID, userID int64) error
}

type MessagesRepository interface {
	AddMessage(ctx context.Context, msg Message) (int64, error)
	// ListRecentMessages returns up to limit messages, newest first.
	ListRecentMessages(ctx context.Context, conversationID int64, limit int) ([]Message, error)
	SearchAssistantMessagesByKeyword(ctx context.Context, userID, excludeConversationID int64, keywords []string, limit int) ([]RelatedMessage, error)
}

type ConceptRepository interface {
	GetConceptMemory(ctx context.Context, conversationID int64) ([]ConceptMemoryEntry, error)
	// GetConceptMemoryByKey returns nil without error when the concept has
	// never been seen in the conversation.
	GetConceptMemoryByKey(ctx context.Context, conversationID int64, concept string) (*ConceptMemoryEntry, error)
	UpsertConceptMemory(ctx context.Context, entry ConceptMemoryEntry) error
	// TopConcepts orders by relevance score, then usage count, both descending.
	TopConcepts(ctx context.Context, conversationID int64, limit int) ([]ConceptMemoryEntry, error)
}

// Store is the persistence boundary of the engine. WithTx runs fn against a
// store bound to a single transaction; the transaction is rolled back when fn
// returns an error or panics.
type Store interface {
	ConversationRepository
	MessagesRepository
	ConceptRepository
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
