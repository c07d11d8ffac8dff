// Package htmldoc wraps an x/net/html parse tree behind the two views the
// engine needs: ordered block-level text lines and anchors positioned
// relative to a marker text node.
package htmldoc

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Doc is a parsed HTML document.
type Doc struct {
	root *html.Node
}

// Anchor is an <a> element's destination and visible text.
type Anchor struct {
	Href string
	Text string
}

// Parse reads and parses an HTML document.
func Parse(r io.Reader) (*Doc, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Doc{root: root}, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Doc, error) {
	return Parse(strings.NewReader(s))
}

// blockTags force a line break before and after their content.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "div": true, "dl": true, "dt": true, "dd": true,
	"fieldset": true, "figure": true, "figcaption": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "pre": true,
	"section": true, "table": true, "td": true, "th": true, "tr": true,
	"ul": true,
}

var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true,
}

// BlockLines returns the document's visible text as ordered, trimmed,
// non-empty lines, with block-level elements forced onto their own line
// and internal whitespace collapsed.
func (d *Doc) BlockLines() []string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
		case html.ElementNode:
			if skipTags[n.Data] {
				return
			}
			if blockTags[n.Data] {
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			b.WriteByte('\n')
		}
	}
	walk(d.root)

	var lines []string
	for _, raw := range strings.Split(b.String(), "\n") {
		line := strings.Join(strings.Fields(raw), " ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Text returns all visible text collapsed to single spaces.
func (d *Doc) Text() string {
	return strings.Join(d.BlockLines(), " ")
}

// AnchorsAfter returns every anchor appearing after the first text node for
// which marker returns true, in document order. Returns nil when no text
// node matches.
func (d *Doc) AnchorsAfter(marker func(text string) bool) []Anchor {
	var out []Anchor
	seen := false
	d.scan(func(n *html.Node) {
		if !seen && n.Type == html.TextNode && marker(strings.TrimSpace(n.Data)) {
			seen = true
			return
		}
		if seen {
			if a, ok := anchorOf(n); ok {
				out = append(out, a)
			}
		}
	})
	if !seen {
		return nil
	}
	return out
}

// AnchorsBefore returns every anchor appearing before the first text node
// for which marker returns true. When no text node matches, every anchor in
// the document is returned.
func (d *Doc) AnchorsBefore(marker func(text string) bool) []Anchor {
	var out []Anchor
	done := false
	d.scan(func(n *html.Node) {
		if done {
			return
		}
		if n.Type == html.TextNode && marker(strings.TrimSpace(n.Data)) {
			done = true
			return
		}
		if a, ok := anchorOf(n); ok {
			out = append(out, a)
		}
	})
	return out
}

// scan visits every node in document order.
func (d *Doc) scan(visit func(*html.Node)) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		visit(n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.root)
}

func anchorOf(n *html.Node) (Anchor, bool) {
	if n.Type != html.ElementNode || n.Data != "a" {
		return Anchor{}, false
	}
	for _, attr := range n.Attr {
		if attr.Key == "href" {
			return Anchor{Href: attr.Val, Text: nodeText(n)}, true
		}
	}
	return Anchor{}, false
}

func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
