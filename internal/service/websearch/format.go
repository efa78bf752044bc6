package websearch

import (
	"fmt"
	"strings"

	"github.com/sandevgo/ctxengine/internal/core"
)

const (
	NoResults       = "No search results found."
	resultSeparator = "\n---\n\n"
	dateLayout      = "02/01/2006"
)

// FormatResults renders results as numbered blocks for a prompt preamble.
func FormatResults(results []core.SearchResult) string {
	if len(results) == 0 {
		return NoResults
	}

	blocks := make([]string, 0, len(results))
	for i, r := range results {
		var b strings.Builder

		fmt.Fprintf(&b, "[%d] %s", i+1, r.Title)
		if r.PublishedDate != nil {
			fmt.Fprintf(&b, " (%s)", r.PublishedDate.Format(dateLayout))
		}
		b.WriteString("\n")

		if r.Source != "" {
			fmt.Fprintf(&b, "Source: %s\n", r.Source)
		}
		fmt.Fprintf(&b, "URL: %s\n%s\n", r.Link, r.Snippet)

		if r.AdditionalContent != "" {
			fmt.Fprintf(&b, "\nAdditional content:\n%s\n", r.AdditionalContent)
		}

		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, resultSeparator)
}
