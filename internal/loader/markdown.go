package loader

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dgallion1/ticketgest/internal/docmodel"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// MarkdownLoader handles Markdown ticket notes using goldmark. GFM tables
// become real <table> elements, and inline HTML is kept so pasted markup
// (frames, lists) stays queryable.
type MarkdownLoader struct{}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe(), gmhtml.WithHardWraps()),
)

func (l *MarkdownLoader) Load(r io.Reader, filename, pageURL string) (*docmodel.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("<html><body>")
	if err := markdown.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	buf.WriteString("</body></html>")
	return docmodel.Parse(&buf, pageURL)
}
