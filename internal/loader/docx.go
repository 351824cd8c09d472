package loader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dgallion1/ticketgest/internal/docmodel"
	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"
)

// DOCXLoader handles .docx ticket printouts. Paragraphs become <p> (or <hN>
// for heading styles) and Word tables become HTML tables, so the label/value
// layout is preserved.
type DOCXLoader struct{}

func (l *DOCXLoader) Load(r io.Reader, filename, pageURL string) (*docmodel.Document, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "ticketgest-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, item := range doc.Document.Body.Items {
		switch v := item.(type) {
		case *docx.Paragraph:
			writeDocxParagraph(&sb, v)
		case *docx.Table:
			writeDocxTable(&sb, v)
		}
	}
	sb.WriteString("</body></html>")
	return docmodel.ParseString(sb.String(), pageURL)
}

func writeDocxParagraph(sb *strings.Builder, para *docx.Paragraph) {
	text := docxParagraphText(para)
	if text == "" {
		return
	}
	tag := "p"
	if level := docxHeadingLevel(para); level > 0 {
		tag = fmt.Sprintf("h%d", level)
	}
	fmt.Fprintf(sb, "<%s>%s</%s>", tag, html.EscapeString(text), tag)
}

func writeDocxTable(sb *strings.Builder, tbl *docx.Table) {
	sb.WriteString("<table>")
	for _, row := range tbl.TableRows {
		sb.WriteString("<tr>")
		for _, cell := range row.TableCells {
			var parts []string
			for _, para := range cell.Paragraphs {
				if t := docxParagraphText(para); t != "" {
					parts = append(parts, html.EscapeString(t))
				}
			}
			sb.WriteString("<td>")
			sb.WriteString(strings.Join(parts, "<br>"))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table>")
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	switch strings.TrimPrefix(style, "heading") {
	case "1":
		return 1
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
