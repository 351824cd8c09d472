package docmodel

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// VisibleAttr is the explicit per-node visibility flag. A value of "false"
// hides the element and its subtree.
const VisibleAttr = "data-visible"

// hiddenElement reports whether the element itself takes no layout space.
// Visibility is read from markup only; no styles are computed.
func hiddenElement(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Head, atom.Script, atom.Style, atom.Template, atom.Noscript, atom.Title:
		return true
	}
	for _, a := range n.Attr {
		switch strings.ToLower(a.Key) {
		case "hidden":
			return true
		case VisibleAttr:
			if strings.EqualFold(strings.TrimSpace(a.Val), "false") {
				return true
			}
		case "style":
			if styleHides(a.Val) {
				return true
			}
		}
	}
	return false
}

func styleHides(style string) bool {
	s := strings.ToLower(strings.Join(strings.Fields(style), ""))
	return strings.Contains(s, "display:none") || strings.Contains(s, "visibility:hidden")
}
