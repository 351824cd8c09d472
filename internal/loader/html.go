package loader

import (
	"io"

	"github.com/dgallion1/ticketgest/internal/docmodel"
)

// HTMLLoader handles saved record pages.
type HTMLLoader struct{}

func (l *HTMLLoader) Load(r io.Reader, filename, pageURL string) (*docmodel.Document, error) {
	return docmodel.Parse(r, pageURL)
}
