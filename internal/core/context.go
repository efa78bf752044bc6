package core

import "context"

// ContextBuilder produces the retrieval preamble for a generation call.
// Implementations never fail; a degraded result is an empty context.
type ContextBuilder interface {
	BuildContext(ctx context.Context, query string, userID, conversationID int64) ContextResult
}
