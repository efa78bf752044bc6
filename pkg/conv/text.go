package conv

import (
	"strings"

	"github.com/inbucket/html2text"
)

// HTMLToText renders a page as readable plain text with tables laid out.
// Links are dropped when omitLinks is set.
func HTMLToText(page string, omitLinks bool) (string, error) {
	text, err := html2text.FromReader(strings.NewReader(page), html2text.Options{
		OmitLinks:    omitLinks,
		PrettyTables: true,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
