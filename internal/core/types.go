package core

import (
	"errors"
	"time"
)

const (
	EngineName      = "ctxengine"
	EngineUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	EngineVersion   = "0.1.0"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrSearchDisabled       = errors.New("web search is not configured")
)

type Conversation struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	Title         string     `json:"title"`
	CreatedAt     time.Time  `json:"created_at"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
}

type Message struct {
	ID               int64     `json:"id"`
	ConversationID   int64     `json:"conversation_id"`
	UserID           int64     `json:"user_id"`
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	ContextRelevance float64   `json:"context_relevance"`
	CreatedAt        time.Time `json:"created_at"`
}

// ConceptMemoryEntry is the accumulated statistic for one concept within one
// conversation. RelevanceScore is a usage-weighted running mean and depends on
// the order in which relevance signals were observed.
type ConceptMemoryEntry struct {
	ConversationID int64     `json:"conversation_id"`
	KeyConcept     string    `json:"key_concept"`
	RelevanceScore float64   `json:"relevance_score"`
	UsageCount     int       `json:"usage_count"`
	LastUsed       time.Time `json:"last_used"`
}

// RelatedMessage is an assistant message from another conversation of the
// same user, matched by keyword.
type RelatedMessage struct {
	ConversationID    int64     `json:"conversation_id"`
	ConversationTitle string    `json:"conversation_title"`
	Content           string    `json:"content"`
	CreatedAt         time.Time `json:"created_at"`
}

type SearchResult struct {
	Title             string     `json:"title"`
	Link              string     `json:"link"`
	Snippet           string     `json:"snippet"`
	PublishedDate     *time.Time `json:"published_date,omitempty"`
	Source            string     `json:"source"`
	AdditionalContent string     `json:"additional_content,omitempty"`
}

// ContextBundle is assembled per generation request and discarded afterwards.
type ContextBundle struct {
	RecentMessages    []Message
	TopConcepts       []ConceptMemoryEntry
	RelatedMessages   []RelatedMessage
	WebSection        string
	UsageInstructions string
}

type ContextResult struct {
	Context       string
	HasWebResults bool
	Bundle        ContextBundle
}
