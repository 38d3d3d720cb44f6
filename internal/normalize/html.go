package normalize

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// htmlTagPattern detects common markup so plain-text fields skip the parser.
var htmlTagPattern = regexp.MustCompile(`(?i)<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// ContainsHTML reports whether a vendor text field appears to carry markup.
// Some export tools paste storefront HTML straight into description columns.
func ContainsHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// StripHTML removes markup from a vendor text field and returns plain text
// with entities decoded and whitespace collapsed. Non-HTML input is returned
// collapsed but otherwise unchanged.
func StripHTML(s string) string {
	if s == "" {
		return ""
	}
	if !ContainsHTML(s) {
		return collapse(html.UnescapeString(s))
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return stripHTMLFallback(s)
	}

	var buf strings.Builder
	extractText(doc, &buf)
	return collapse(buf.String())
}

// Description converts a vendor long-description field into readable text.
// Markup is converted to Markdown so list and paragraph structure survives;
// when conversion fails the markup is stripped instead. Non-HTML input is
// returned trimmed.
func Description(s string) string {
	if s == "" {
		return ""
	}
	if !ContainsHTML(s) {
		return collapse(html.UnescapeString(s))
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return StripHTML(s)
	}
	return strings.TrimSpace(markdown)
}

// extractText recursively extracts text content from HTML nodes, separating
// block elements with spaces.
func extractText(n *html.Node, buf *strings.Builder) {
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			buf.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}

	if n.Type == html.ElementNode {
		switch n.Data {
		case "p", "div", "li", "h1", "h2", "h3", "h4", "h5", "h6":
			buf.WriteString(" ")
		}
	}
}

// stripHTMLFallback uses regex stripping when parsing fails.
var htmlTagRegex = regexp.MustCompile(`<[^>]*>`)

func stripHTMLFallback(s string) string {
	s = htmlTagRegex.ReplaceAllString(s, " ")
	return collapse(html.UnescapeString(s))
}
