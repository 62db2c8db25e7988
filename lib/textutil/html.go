// Package textutil normalizes upstream free text for display.
package textutil

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

const ellipsis = "…"

var (
	whitespace = regexp.MustCompile(`\s+`)
)

// PlainText flattens any HTML markup or entities in s to its text content.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return compactWhitespace(s)
	}
	doc, err := htmlquery.Parse(strings.NewReader(s))
	if err != nil {
		return compactWhitespace(s)
	}
	return digForText(htmlquery.FindOne(doc, "//body"))
}

// Truncate shortens s to at most limit runes, marking the cut with an
// ellipsis. A non-positive limit disables truncation.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	keep := limit - utf8.RuneCountInString(ellipsis)
	if keep < 0 {
		keep = 0
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:keep]), " ") + ellipsis
}

func digForText(n *html.Node) string {
	if n == nil {
		return ""
	}
	buf := new(bytes.Buffer)
	dig(n, buf)
	return compactWhitespace(buf.String())
}

func dig(n *html.Node, buf *bytes.Buffer) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
	}
	if n.Type == html.ElementNode && n.Data == "br" {
		buf.WriteString(" ")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		dig(c, buf)
	}
}

func compactWhitespace(s string) string {
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.Trim(s, " ")
	return s
}
