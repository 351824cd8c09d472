package loader

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/ticketgest/internal/docmodel"
)

// TextLoader handles plain text ticket bodies, e.g. e-mail exports.
type TextLoader struct{}

func (l *TextLoader) Load(r io.Reader, filename, pageURL string) (*docmodel.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var text strings.Builder
	for scanner.Scan() {
		text.WriteString(scanner.Text())
		text.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return preDocument(text.String(), pageURL)
}
