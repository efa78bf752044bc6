package websearch

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	minParagraphLength = 100
	maxParagraphs      = 3
)

// contentSelectors are tried in order; the first element matching any of them
// becomes the content root. Only tag, .class and #id forms are supported.
var contentSelectors = []string{
	"article",
	".article-content",
	".post-content",
	".entry-content",
	"main",
	"#content",
	".content",
}

// ExtractParagraphs returns up to three paragraphs longer than 100 characters
// from the main content of an HTML page, separated by blank lines.
func ExtractParagraphs(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return ""
	}

	root := contentRoot(doc)
	if root == nil {
		return ""
	}

	var paragraphs []string
	for _, p := range findAll(root, "p") {
		text, length := paragraphText(p)
		if length <= minParagraphLength {
			continue
		}
		paragraphs = append(paragraphs, text)
		if len(paragraphs) == maxParagraphs {
			break
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

func contentRoot(doc *html.Node) *html.Node {
	for _, sel := range contentSelectors {
		if n := findFirst(doc, sel); n != nil {
			return n
		}
	}
	return findFirst(doc, "body")
}

func findFirst(n *html.Node, selector string) *html.Node {
	if matches(n, selector) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, selector); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, selector string) []*html.Node {
	var out []*html.Node
	var traverse func(*html.Node)
	traverse = func(node *html.Node) {
		if matches(node, selector) {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		traverse(c)
	}
	return out
}

func matches(n *html.Node, selector string) bool {
	if n.Type != html.ElementNode {
		return false
	}
	switch {
	case strings.HasPrefix(selector, "."):
		return hasClass(n, selector[1:])
	case strings.HasPrefix(selector, "#"):
		return attr(n, "id") == selector[1:]
	default:
		return n.Data == selector
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// paragraphText is the trimmed text content of p: the data of every text
// node below it, with no markup of its own. The length filter applies to
// this text; the returned form has its whitespace runs collapsed.
func paragraphText(p *html.Node) (text string, length int) {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(p)

	raw := strings.TrimSpace(sb.String())
	return strings.Join(strings.Fields(raw), " "), utf8.RuneCountInString(raw)
}
