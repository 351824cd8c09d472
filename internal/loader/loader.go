// Package loader turns uploaded ticket files into documents the extractors
// can read. Non-HTML formats are rendered to equivalent HTML first.
package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/ticketgest/internal/docmodel"
	"golang.org/x/net/html"
)

// Loader converts raw file bytes into a Document. pageURL is the address the
// content was captured from and may be empty.
type Loader interface {
	Load(r io.Reader, filename, pageURL string) (*docmodel.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".html":     true,
	".htm":      true,
	".md":       true,
	".markdown": true,
	".txt":      true,
	".csv":      true,
	".pdf":      true,
	".docx":     true,
}

// Options tune individual loaders.
type Options struct {
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate loader for a filename.
func ForFile(filename string, opts Options) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".html", ".htm":
		return &HTMLLoader{}, nil
	case ".md", ".markdown":
		return &MarkdownLoader{}, nil
	case ".txt":
		return &TextLoader{}, nil
	case ".csv":
		return &CSVLoader{}, nil
	case ".pdf":
		return &PDFLoader{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXLoader{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %q", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// preDocument wraps plain text in a <pre> body so its line structure survives.
func preDocument(text, pageURL string) (*docmodel.Document, error) {
	var sb strings.Builder
	sb.WriteString("<html><body><pre>\n")
	sb.WriteString(html.EscapeString(text))
	sb.WriteString("</pre></body></html>")
	return docmodel.ParseString(sb.String(), pageURL)
}
