// Package rag fuses web search results and conversation memory into the
// context preamble handed to a generation call.
package rag

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/sandevgo/ctxengine/internal/config"
	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/sandevgo/ctxengine/internal/service/websearch"
	"github.com/sandevgo/ctxengine/pkg/log"
	"golang.org/x/sync/errgroup"
)

const (
	webHeader       = "Recent web search results:\n"
	relatedHeader   = "Related information from your previous conversations:\n\n"
	conceptsHeader  = "Key concepts from this conversation:\n"
	relatedDate     = "02/01/2006"
	truncatedSuffix = "..."

	// DefaultWebResults is how many results the web branch asks for.
	DefaultWebResults = 4

	// maxFitPasses bounds re-truncation when token counts of joined
	// sections differ from the sum of their parts.
	maxFitPasses = 8
)

const UsageInstructions = `IMPORTANT INSTRUCTIONS FOR USING SEARCH RESULTS:
1. For questions about current events, news, or time-sensitive information, ALWAYS use the web search results above.
2. Synthesize information from ALL search results to provide a comprehensive answer.
3. Include specific details, facts, figures, and dates from the search results.
4. Cite sources by mentioning the source name or URL when providing specific information.
5. If search results contain conflicting information, acknowledge this and present multiple perspectives.
6. If the search results don't fully answer the question, clearly state what information is missing.
7. NEVER say your knowledge is limited or outdated when search results are available.
8. NEVER make up information - if the search results don't contain certain details, acknowledge this gap.

`

var _ core.ContextBuilder = (*Engine)(nil)

type Engine struct {
	cfg        *config.RAGConfig
	store      core.Store
	extractor  core.ConceptExtractor
	classifier core.QueryClassifier

	web        core.SearchProvider
	webResults int
	counter    core.TokenCounter
}

func NewEngine(
	cfg *config.RAGConfig,
	store core.Store,
	extractor core.ConceptExtractor,
	classifier core.QueryClassifier,
) *Engine {
	return &Engine{
		cfg:        cfg,
		store:      store,
		extractor:  extractor,
		classifier: classifier,
		webResults: DefaultWebResults,
	}
}

// WithWebSearch enables the web branch. Without it time-sensitive queries
// get the database context only.
func (e *Engine) WithWebSearch(web core.SearchProvider, results int) *Engine {
	e.web = web
	if results > 0 {
		e.webResults = results
	}
	return e
}

// WithTokenCounter enables the context token budget.
func (e *Engine) WithTokenCounter(counter core.TokenCounter) *Engine {
	e.counter = counter
	return e
}

type sections struct {
	web      string
	related  string
	concepts string
}

func (s sections) render() string {
	var b strings.Builder
	if s.web != "" {
		b.WriteString(webHeader)
		b.WriteString(s.web)
		b.WriteString("\n\n")
		b.WriteString(UsageInstructions)
	}
	b.WriteString(s.related)
	b.WriteString(s.concepts)
	return b.String()
}

// BuildContext never fails. Every dependency error is logged and replaced by
// an empty contribution.
func (e *Engine) BuildContext(ctx context.Context, query string, userID, conversationID int64) core.ContextResult {
	ctx = log.WithComponent(ctx, "rag")
	logger := log.FromCtx(ctx).With().
		Int64("user_id", userID).
		Int64("conversation_id", conversationID).
		Logger()
	ctx = logger.WithContext(ctx)

	needsRecent := e.classifier.NeedsRecentInfo(query)
	logger.Debug().Str("query", query).Bool("needs_recent_info", needsRecent).Msg("building context")

	var (
		bundle core.ContextBundle
		secs   sections
	)

	var g errgroup.Group
	if needsRecent && e.web != nil {
		g.Go(func() error {
			defer recoverBranch(ctx, "web")
			secs.web = e.webSection(ctx, query)
			return nil
		})
	}
	g.Go(func() error {
		defer recoverBranch(ctx, "database")
		e.loadDatabase(ctx, query, userID, conversationID, &bundle)
		return nil
	})
	_ = g.Wait()

	secs.related = formatRelated(bundle.RelatedMessages)
	secs.concepts = formatConcepts(bundle.TopConcepts)
	secs = e.fit(ctx, secs)

	if secs.web != "" {
		bundle.WebSection = secs.web
		bundle.UsageInstructions = UsageInstructions
	}

	return core.ContextResult{
		Context:       secs.render(),
		HasWebResults: secs.web != "",
		Bundle:        bundle,
	}
}

func (e *Engine) webSection(ctx context.Context, query string) string {
	logger := log.FromCtx(ctx)

	results, err := e.web.Search(ctx, query, e.webResults)
	if err != nil {
		logger.Error().Err(err).Msg("web search failed")
		return ""
	}
	if len(results) == 0 {
		logger.Debug().Msg("web search returned no results")
		return ""
	}
	return websearch.FormatResults(results)
}

// loadDatabase fills the bundle from the store. Each read fails on its own.
func (e *Engine) loadDatabase(ctx context.Context, query string, userID, conversationID int64, bundle *core.ContextBundle) {
	logger := log.FromCtx(ctx)

	recent, err := e.store.ListRecentMessages(ctx, conversationID, e.cfg.RecentMessages)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load recent messages")
	} else {
		slices.Reverse(recent)
		bundle.RecentMessages = recent
	}

	top, err := e.store.TopConcepts(ctx, conversationID, e.cfg.TopConcepts)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load concept memory")
	} else {
		bundle.TopConcepts = top
	}

	keywords := e.extractor.Keywords(query)
	if len(keywords) == 0 || e.cfg.RelatedMessages <= 0 {
		return
	}

	related, err := e.store.SearchAssistantMessagesByKeyword(ctx, userID, conversationID, keywords, e.cfg.RelatedMessages)
	if err != nil {
		logger.Error().Err(err).Strs("keywords", keywords).Msg("failed to search related messages")
		return
	}
	for i := range related {
		related[i].Content = truncate(related[i].Content, e.cfg.RelatedTruncate)
	}
	bundle.RelatedMessages = related
}

// fit shrinks the web section first, then the related block, until the
// rendered context is within MaxContextTokens. Instructions and the concept
// list are never cut.
func (e *Engine) fit(ctx context.Context, s sections) sections {
	if e.counter == nil || e.cfg.MaxContextTokens <= 0 {
		return s
	}

	for range maxFitPasses {
		over := e.counter.Count(s.render()) - e.cfg.MaxContextTokens
		if over <= 0 {
			return s
		}

		switch {
		case s.web != "":
			s.web = e.shrink(s.web, over)
		case s.related != "":
			s.related = e.shrink(s.related, over)
		default:
			log.FromCtx(ctx).Warn().Int("over_by", over).Msg("context exceeds token budget")
			return s
		}
	}
	return s
}

func (e *Engine) shrink(text string, over int) string {
	keep := e.counter.Count(text) - over
	if keep <= 0 {
		return ""
	}
	return strings.TrimSpace(e.counter.Truncate(text, keep))
}

func formatRelated(messages []core.RelatedMessage) string {
	if len(messages) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(relatedHeader)
	for i, m := range messages {
		fmt.Fprintf(&b, "[%d] From \"%s\" (%s):\n%s\n\n", i+1, m.ConversationTitle, m.CreatedAt.Format(relatedDate), m.Content)
	}
	return b.String()
}

func formatConcepts(entries []core.ConceptMemoryEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(conceptsHeader)
	for _, c := range entries {
		fmt.Fprintf(&b, "- %s (relevance: %.2f)\n", c.KeyConcept, c.RelevanceScore)
	}
	return b.String()
}

// truncate cuts text to limit characters and marks the cut.
func truncate(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + truncatedSuffix
}

func recoverBranch(ctx context.Context, branch string) {
	if r := recover(); r != nil {
		log.FromCtx(ctx).Error().Interface("panic", r).Str("branch", branch).Msg("context branch panicked")
	}
}
