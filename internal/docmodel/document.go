// Package docmodel is a read-only view over a rendered HTML document.
//
// Everything above it (table parsing, pattern extraction, the per-format
// extractors) talks to a Document and its Nodes only. A Document is never
// mutated after Parse, so one may be shared by concurrent readers.
package docmodel

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is an immutable, queryable snapshot of a rendered page or frame.
type Document struct {
	root    *html.Node
	pageURL *url.URL
}

// Parse reads an HTML document. pageURL is the address the page was rendered
// from; it may be empty, in which case Origin returns "".
func Parse(r io.Reader, pageURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return FromNode(root, pageURL), nil
}

// ParseString is Parse over an in-memory string.
func ParseString(src, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(src), pageURL)
}

// FromNode wraps an already-parsed tree.
func FromNode(root *html.Node, pageURL string) *Document {
	d := &Document{root: root}
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			d.pageURL = u
		}
	}
	return d
}

// Root returns the document node.
func (d *Document) Root() Node {
	if d == nil {
		return Node{}
	}
	return Node{n: d.root}
}

// Query returns all elements matching a CSS selector in document order.
// An invalid selector or an unavailable document yields no nodes.
func (d *Document) Query(selector string) []Node {
	return d.Root().Query(selector)
}

// QueryFunc returns all elements for which pred reports true, in document order.
func (d *Document) QueryFunc(pred func(Node) bool) []Node {
	return d.Root().QueryFunc(pred)
}

// Body returns the <body> element, or the document node if there is none.
func (d *Document) Body() Node {
	if body := d.Query("body"); len(body) > 0 {
		return body[0]
	}
	return d.Root()
}

// RawText is the rendered text of the body: what a reader would see on screen.
func (d *Document) RawText() string {
	if d == nil {
		return ""
	}
	return d.Body().InnerText()
}

// URL returns the page address, or "" when unknown.
func (d *Document) URL() string {
	if d == nil || d.pageURL == nil {
		return ""
	}
	return d.pageURL.String()
}

// Origin returns scheme://host of the page address, or "".
func (d *Document) Origin() string {
	if d == nil || d.pageURL == nil || d.pageURL.Host == "" {
		return ""
	}
	return d.pageURL.Scheme + "://" + d.pageURL.Host
}

// ResolveURL makes href absolute against the page address, the way a browser
// reports an anchor's href property. Unparseable input is returned as is.
func (d *Document) ResolveURL(href string) string {
	href = strings.TrimSpace(href)
	if d == nil || d.pageURL == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return d.pageURL.ResolveReference(ref).String()
}

// Frame returns the nested document rendered inside an <iframe> or <frame>.
// The content comes from the srcdoc attribute, or from the element's inline
// markup when srcdoc is absent. Nil means the frame has no readable document.
func (d *Document) Frame(n Node) *Document {
	if !n.Valid() {
		return nil
	}
	pageURL := d.URL()
	if src, ok := n.Attr("srcdoc"); ok && strings.TrimSpace(src) != "" {
		if doc, err := ParseString(src, pageURL); err == nil {
			return doc
		}
	}
	switch n.Tag() {
	case "iframe", "frame":
		inline := n.Text()
		if strings.TrimSpace(inline) == "" {
			return nil
		}
		if doc, err := ParseString(inline, pageURL); err == nil {
			return doc
		}
	}
	return nil
}

// selection builds a goquery selection rooted at n. Find on it searches
// descendants only, matching querySelectorAll.
func selection(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}
