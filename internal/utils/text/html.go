package text

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultExcerptLength is the rune budget for derived article summaries.
const DefaultExcerptLength = 200

// PlainText strips markup from an HTML fragment and collapses whitespace.
// Script and style contents are dropped. Input that fails to parse is
// returned with whitespace collapsed.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.Join(strings.Fields(html), " ")
	}
	doc.Find("script, style, noscript").Remove()
	// block elements would otherwise glue adjacent words together
	doc.Find("p, br, li, h1, h2, h3, h4, h5, h6, div, blockquote").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Excerpt returns the plain-text form of html cut to limit runes.
func Excerpt(html string, limit int) string {
	return Truncate(PlainText(html), limit)
}
