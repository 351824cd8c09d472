package docmodel

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Node is one element (or the document node) of a Document. The zero Node is
// valid to use and behaves like an empty, detached element.
type Node struct {
	n *html.Node
}

// Valid reports whether the node refers to something in a document.
func (n Node) Valid() bool {
	return n.n != nil
}

// Tag returns the lower-case element name, or "" for non-elements.
func (n Node) Tag() string {
	if n.n == nil || n.n.Type != html.ElementNode {
		return ""
	}
	return n.n.Data
}

// Attr returns the named attribute and whether it was present.
func (n Node) Attr(name string) (string, bool) {
	if n.n == nil {
		return "", false
	}
	for _, a := range n.n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the named attribute, or fallback when absent.
func (n Node) AttrOr(name, fallback string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return fallback
}

// Text is the concatenated text of every descendant, hidden or not.
func (n Node) Text() string {
	if n.n == nil {
		return ""
	}
	return selection(n.n).Text()
}

// InnerText is the rendered text of the node. See innerText for the rules.
func (n Node) InnerText() string {
	if n.n == nil {
		return ""
	}
	return innerText(n.n)
}

// Query returns descendants matching a CSS selector, in document order.
func (n Node) Query(selector string) []Node {
	if n.n == nil {
		return nil
	}
	return wrap(selection(n.n).Find(selector))
}

// QueryFunc returns descendant elements for which pred reports true.
func (n Node) QueryFunc(pred func(Node) bool) []Node {
	if n.n == nil || pred == nil {
		return nil
	}
	var out []Node
	var walk func(*html.Node)
	walk = func(h *html.Node) {
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && pred(Node{n: c}) {
				out = append(out, Node{n: c})
			}
			walk(c)
		}
	}
	walk(n.n)
	return out
}

// Children returns the element children of the node.
func (n Node) Children() []Node {
	if n.n == nil {
		return nil
	}
	var out []Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, Node{n: c})
		}
	}
	return out
}

// IsVisible reports whether the node would occupy layout space: neither it nor
// any ancestor is hidden.
func (n Node) IsVisible() bool {
	if n.n == nil {
		return false
	}
	for p := n.n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && hiddenElement(p) {
			return false
		}
	}
	return true
}

// FirstVisible returns the first visible node in nodes.
func FirstVisible(nodes []Node) (Node, bool) {
	for _, n := range nodes {
		if n.IsVisible() {
			return n, true
		}
	}
	return Node{}, false
}

// Visible filters nodes down to the visible ones, keeping order.
func Visible(nodes []Node) []Node {
	var out []Node
	for _, n := range nodes {
		if n.IsVisible() {
			out = append(out, n)
		}
	}
	return out
}

func wrap(sel *goquery.Selection) []Node {
	if sel == nil || len(sel.Nodes) == 0 {
		return nil
	}
	out := make([]Node, 0, len(sel.Nodes))
	for _, h := range sel.Nodes {
		out = append(out, Node{n: h})
	}
	return out
}
