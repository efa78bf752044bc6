package memory

import (
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
)

const (
	// FreshRelevance is returned when there is nothing to compare against.
	FreshRelevance = 1.0
	// UnknownRelevance stands in for concepts never seen in the conversation.
	UnknownRelevance = 0.5
)

// ScoreRelevance is the mean stored relevance of the given concepts, with
// unseen concepts counted as UnknownRelevance. An empty concept list or an
// empty memory both score FreshRelevance.
func ScoreRelevance(entries []core.ConceptMemoryEntry, concepts []string) float64 {
	if len(entries) == 0 || len(concepts) == 0 {
		return FreshRelevance
	}

	scores := make(map[string]float64, len(entries))
	for _, e := range entries {
		scores[e.KeyConcept] = e.RelevanceScore
	}

	var sum float64
	for _, c := range concepts {
		if s, ok := scores[c]; ok {
			sum += s
		} else {
			sum += UnknownRelevance
		}
	}
	return sum / float64(len(concepts))
}

// NextEntry applies one relevance observation to a concept. The new score is
// weighted by the prior usage count, so the result depends on observation
// order.
func NextEntry(existing *core.ConceptMemoryEntry, conversationID int64, concept string, relevance float64, now time.Time) core.ConceptMemoryEntry {
	if existing == nil {
		return core.ConceptMemoryEntry{
			ConversationID: conversationID,
			KeyConcept:     concept,
			RelevanceScore: relevance,
			UsageCount:     1,
			LastUsed:       now,
		}
	}

	n := float64(existing.UsageCount)
	return core.ConceptMemoryEntry{
		ConversationID: conversationID,
		KeyConcept:     concept,
		RelevanceScore: (existing.RelevanceScore*n + relevance) / (n + 1),
		UsageCount:     existing.UsageCount + 1,
		LastUsed:       now,
	}
}
