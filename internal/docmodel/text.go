package docmodel

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tbody": true, "thead": true, "tfoot": true, "tr": true, "ul": true,
	"caption": true,
}

// Elements whose content is never part of the page's own text.
var opaqueTags = map[string]bool{
	"iframe": true, "frame": true, "object": true, "embed": true,
	"img": true, "svg": true, "canvas": true, "video": true, "audio": true,
}

// Containers where whitespace-only text is not rendered.
var tableContainers = map[string]bool{
	"table": true, "tbody": true, "thead": true, "tfoot": true, "tr": true,
}

var (
	spacedTab  = regexp.MustCompile(` *\t+ *`)
	spaceRuns  = regexp.MustCompile(` {2,}`)
	lineBreaks = regexp.MustCompile(`\r\n?`)
)

// innerText approximates the browser's innerText: hidden subtrees and frame
// bodies are skipped, whitespace is collapsed outside <pre>, block elements
// start new lines and adjacent table cells are separated by a tab. Blank
// lines are dropped.
func innerText(root *html.Node) string {
	var b strings.Builder

	var walk func(n *html.Node, pre bool)
	walkChildren := func(n *html.Node, pre bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, pre)
		}
	}
	walk = func(n *html.Node, pre bool) {
		switch n.Type {
		case html.TextNode:
			if pre {
				b.WriteString(n.Data)
				return
			}
			if n.Parent != nil && tableContainers[n.Parent.Data] && strings.TrimSpace(n.Data) == "" {
				return
			}
			writeCollapsed(&b, n.Data)
		case html.ElementNode:
			if hiddenElement(n) || opaqueTags[n.Data] {
				return
			}
			if n.Data == "br" {
				b.WriteByte('\n')
				return
			}
			if (n.Data == "td" || n.Data == "th") && hasPrevCell(n) {
				b.WriteByte('\t')
			}
			block := blockTags[n.Data]
			if block {
				b.WriteByte('\n')
			}
			walkChildren(n, pre || n.Data == "pre")
			if block {
				b.WriteByte('\n')
			}
		case html.DocumentNode:
			walkChildren(n, pre)
		}
	}

	// The root itself is rendered even when an ancestor hides it.
	if root.Type == html.ElementNode {
		walkChildren(root, root.Data == "pre")
	} else {
		walk(root, false)
	}
	return normalizeLines(b.String())
}

func hasPrevCell(n *html.Node) bool {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode && (s.Data == "td" || s.Data == "th") {
			return true
		}
	}
	return false
}

func writeCollapsed(b *strings.Builder, s string) {
	if s == "" {
		return
	}
	words := strings.Fields(s)
	first, _ := utf8.DecodeRuneInString(s)
	last, _ := utf8.DecodeLastRuneInString(s)
	if unicode.IsSpace(first) {
		b.WriteByte(' ')
	}
	b.WriteString(strings.Join(words, " "))
	if len(words) > 0 && unicode.IsSpace(last) {
		b.WriteByte(' ')
	}
}

func normalizeLines(s string) string {
	s = lineBreaks.ReplaceAllString(s, "\n")
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		line = strings.ReplaceAll(line, "\u00a0", " ")
		line = spacedTab.ReplaceAllString(line, "\t")
		line = spaceRuns.ReplaceAllString(line, " ")
		line = strings.Trim(line, " \t")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
