package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/sandevgo/ctxengine/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

const searchResponse = `{
  "items": [
    {
      "title": "Monsoon <b>arrives</b> in Kerala",
      "link": "https://news.example.com/monsoon",
      "displayLink": "news.example.com",
      "snippet": "The monsoon &amp; its <i>onset</i>",
      "pagemap": {"metatags": [{"article:published_time": "2026-06-01T10:00:00Z"}]}
    },
    {
      "title": "Weather update",
      "link": "https://weather.example.org/today",
      "snippet": "Rain expected",
      "pagemap": {"metatags": [{"og:updated_time": "2026-06-02"}]}
    },
    {
      "title": "No date",
      "link": "https://blog.example.net/post",
      "displayLink": "blog.example.net",
      "snippet": "Undated",
      "pagemap": {"metatags": [{"article:published_time": "not a date"}]}
    }
  ]
}`

func newTestSearch(t *testing.T, handler http.HandlerFunc) *Search {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	s, err := NewSearch(context.Background(), Options{
		APIKey:       "key",
		EngineID:     "engine",
		DateRestrict: "y1",
		ClientOptions: []option.ClientOption{
			option.WithEndpoint(server.URL + "/"),
			option.WithHTTPClient(server.Client()),
		},
	})
	require.NoError(t, err)
	return s
}

func TestNewSearch_Disabled(t *testing.T) {
	_, err := NewSearch(context.Background(), Options{APIKey: "key"})
	assert.True(t, errors.Is(err, core.ErrSearchDisabled))
}

func TestSearch_MapsResults(t *testing.T) {
	var query url.Values
	s := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, searchResponse)
	})

	results, err := s.Search(context.Background(), "monsoon kerala", 4)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "monsoon kerala", query.Get("q"))
	assert.Equal(t, "engine", query.Get("cx"))
	assert.Equal(t, "4", query.Get("num"))
	assert.Equal(t, "y1", query.Get("dateRestrict"))
	assert.Equal(t, "date", query.Get("sort"))

	first := results[0]
	assert.Equal(t, "Monsoon arrives in Kerala", first.Title)
	assert.Equal(t, "The monsoon & its onset", first.Snippet)
	assert.Equal(t, "news.example.com", first.Source)
	require.NotNil(t, first.PublishedDate)
	assert.True(t, first.PublishedDate.Equal(time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)))

	second := results[1]
	assert.Equal(t, "weather.example.org", second.Source, "falls back to link hostname")
	require.NotNil(t, second.PublishedDate)
	assert.Equal(t, "02/06/2026", second.PublishedDate.Format("02/01/2006"))

	assert.Nil(t, results[2].PublishedDate)
}

func TestSearch_ClampsNum(t *testing.T) {
	var num string
	s := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		num = r.URL.Query().Get("num")
		fmt.Fprint(w, `{}`)
	})

	results, err := s.Search(context.Background(), "q", 25)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, "10", num)
}

func TestSearch_ProviderError(t *testing.T) {
	s := newTestSearch(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error": {"code": 403, "message": "quota exceeded"}}`)
	})

	_, err := s.Search(context.Background(), "q", 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom search request failed")
}
