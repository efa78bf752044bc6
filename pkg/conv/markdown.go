package conv

import (
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions    = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags     = html.CommonFlags | html.HrefTargetBlank
	previewPolicy = bluemonday.NewPolicy()
)

func init() {
	// Context previews embed third-party snippets, so only inline formatting,
	// code, quotes and lists survive.
	previewPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	previewPolicy.AllowElements("ul", "ol", "li", "hr", "br")
	previewPolicy.AllowAttrs("href").OnElements("a")
	previewPolicy.AllowAttrs("class").OnElements("code")
}

// MarkdownToHTML renders md and strips everything outside the preview policy.
func MarkdownToHTML(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)

	return string(previewPolicy.SanitizeBytes(unsafeHTML))
}
