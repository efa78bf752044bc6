// Package query decides whether a question needs live web data and rewrites
// it for a search provider. Both are fixed regular-expression heuristics.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var recencyWords = []string{
	"current", "when", "latest", "recent", "today", "now", "yesterday",
	"this week", "this month", "news", "weather", "stock", "price", "update",
	"trend", "forecast", "prediction", "market", "election", "event", "covid",
	"pandemic", "happening", "live", "breaking",
}

var (
	recencyPattern       = wordPattern(recencyWords)
	leadingQuestionWords = regexp.MustCompile(`(?i)^(?:(?:what|who|when|where|why|how|is|are|was|were|do|does|did|can|could|will|would|should|has|have)(?:'s|’s)?\s+)+`)
	currentDataPattern   = regexp.MustCompile(`(?i)current|latest|recent|today|now|update|news`)
	localeTopicPattern   = regexp.MustCompile(`(?i)weather|event|festival|holiday|government|policy|law|regulation`)
)

type Classifier struct {
	locale        string
	localePattern *regexp.Regexp
	now           func() time.Time
}

// NewClassifier builds a classifier that appends locale to locale-sensitive
// queries unless one of aliases already appears. An empty locale disables
// that rewrite.
func NewClassifier(locale string, aliases []string) *Classifier {
	c := &Classifier{
		locale: strings.TrimSpace(locale),
		now:    time.Now,
	}

	names := make([]string, 0, len(aliases)+1)
	for _, a := range append([]string{c.locale}, aliases...) {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, regexp.QuoteMeta(a))
		}
	}
	if len(names) > 0 {
		c.localePattern = regexp.MustCompile(`(?i)` + strings.Join(names, "|"))
	}
	return c
}

func (c *Classifier) WithClock(now func() time.Time) *Classifier {
	c.now = now
	return c
}

// NeedsRecentInfo reports whether the query mentions anything time-sensitive.
// Matching is case-insensitive and not anchored to word boundaries.
func (c *Classifier) NeedsRecentInfo(query string) bool {
	if recencyPattern.MatchString(query) {
		return true
	}

	// The year tokens follow the clock: the current and the previous year.
	year := c.now().Year()
	return strings.Contains(query, strconv.Itoa(year)) || strings.Contains(query, strconv.Itoa(year-1))
}

// EnhanceQuery strips leading question words and a trailing question mark,
// then appends date context and the locale where they help a web search.
func (c *Classifier) EnhanceQuery(query string) string {
	trimmed := strings.TrimSpace(query)

	enhanced := leadingQuestionWords.ReplaceAllString(trimmed, "")
	enhanced = strings.TrimSpace(strings.TrimSuffix(enhanced, "?"))
	if enhanced == "" {
		enhanced = strings.TrimSpace(strings.TrimSuffix(trimmed, "?"))
	}

	if currentDataPattern.MatchString(query) {
		now := c.now()
		enhanced += fmt.Sprintf(" %s %d latest information", now.Month(), now.Year())
	}

	if c.localePattern != nil && localeTopicPattern.MatchString(query) && !c.localePattern.MatchString(enhanced) {
		enhanced += " " + c.locale
	}

	return enhanced
}

func wordPattern(words []string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)` + strings.Join(quoted, "|"))
}
