// Package concept turns message text into coarse topic signals. Extraction
// is a plain tokenizer with a stop-word filter: no stemming, no ranking.
package concept

import (
	"regexp"
	"strings"
)

const (
	MaxConcepts  = 10
	MaxKeywords  = 5
	minTokenSize = 4
)

var nonWord = regexp.MustCompile(`\W+`)

var conceptStopWords = newWordSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"is", "are", "was", "were",
)

// Keyword search drops question words as well.
var keywordStopWords = newWordSet(
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"is", "are", "was", "were", "what", "when", "where", "why", "how",
)

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns up to MaxConcepts tokens in first-occurrence order.
// Duplicates are kept.
func (e *Extractor) Extract(content string) []string {
	return Extract(content)
}

func (e *Extractor) Keywords(query string) []string {
	return Keywords(query)
}

func Extract(content string) []string {
	return filterTokens(content, conceptStopWords, MaxConcepts)
}

// Keywords returns the terms used for substring search across a user's
// other conversations.
func Keywords(query string) []string {
	return filterTokens(query, keywordStopWords, MaxKeywords)
}

func IsStopWord(word string) bool {
	_, ok := conceptStopWords[word]
	return ok
}

func filterTokens(text string, stop map[string]struct{}, limit int) []string {
	out := make([]string, 0, limit)
	for _, tok := range nonWord.Split(strings.ToLower(text), -1) {
		if len(tok) < minTokenSize {
			continue
		}
		if _, ok := stop[tok]; ok {
			continue
		}
		out = append(out, tok)
		if len(out) == limit {
			break
		}
	}
	return out
}

func newWordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
