// Package google implements core.SearchProvider on the Custom Search JSON API.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/sandevgo/ctxengine/pkg/log"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// The API rejects num outside 1..10.
const maxResultsPerCall = 10

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type Options struct {
	APIKey       string
	EngineID     string
	DateRestrict string
	// ClientOptions are appended after the API key; tests use them to point
	// the client at a local server.
	ClientOptions []option.ClientOption
}

type Search struct {
	svc          *customsearch.Service
	engineID     string
	dateRestrict string
	policy       *bluemonday.Policy
}

func NewSearch(ctx context.Context, opts Options) (*Search, error) {
	if opts.APIKey == "" || opts.EngineID == "" {
		return nil, core.ErrSearchDisabled
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(opts.APIKey)}, opts.ClientOptions...)
	svc, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search client: %w", err)
	}

	return &Search{
		svc:          svc,
		engineID:     opts.EngineID,
		dateRestrict: opts.DateRestrict,
		policy:       bluemonday.StrictPolicy(),
	}, nil
}

// Search runs one query, newest results first. Results carry no
// AdditionalContent; enrichment happens in the caller.
func (s *Search) Search(ctx context.Context, query string, numResults int) ([]core.SearchResult, error) {
	if numResults <= 0 {
		return nil, nil
	}
	if numResults > maxResultsPerCall {
		numResults = maxResultsPerCall
	}

	call := s.svc.Cse.List().
		Cx(s.engineID).
		Q(query).
		Num(int64(numResults)).
		Sort("date")
	if s.dateRestrict != "" {
		call = call.DateRestrict(s.dateRestrict)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("custom search request failed: %w", err)
	}

	results := make([]core.SearchResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Link == "" {
			continue
		}
		results = append(results, core.SearchResult{
			Title:         s.clean(item.Title),
			Link:          item.Link,
			Snippet:       s.clean(item.Snippet),
			Source:        source(item),
			PublishedDate: publishedDate(ctx, item),
		})
	}

	return results, nil
}

func (s *Search) clean(text string) string {
	return strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
}

func source(item *customsearch.Result) string {
	if item.DisplayLink != "" {
		return item.DisplayLink
	}
	u, err := url.Parse(item.Link)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

type pagemap struct {
	Metatags []map[string]any `json:"metatags"`
}

// publishedDate reads the first metatags entry; unparsable dates are dropped.
func publishedDate(ctx context.Context, item *customsearch.Result) *time.Time {
	if len(item.Pagemap) == 0 {
		return nil
	}

	var pm pagemap
	if err := json.Unmarshal(item.Pagemap, &pm); err != nil {
		log.FromCtx(ctx).Debug().Err(err).Str("link", item.Link).Msg("failed to decode pagemap")
		return nil
	}
	if len(pm.Metatags) == 0 {
		return nil
	}

	for _, key := range []string{"article:published_time", "og:updated_time"} {
		raw, ok := pm.Metatags[0][key].(string)
		if !ok || raw == "" {
			continue
		}
		if t, ok := parseDate(raw); ok {
			return &t
		}
	}
	return nil
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
