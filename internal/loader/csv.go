package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/ticketgest/internal/docmodel"
	"golang.org/x/net/html"
)

// CSVLoader renders a spreadsheet export as a single table, one row per
// record, so label/value exports read like the on-screen tables.
type CSVLoader struct{}

func (l *CSVLoader) Load(r io.Reader, filename, pageURL string) (*docmodel.Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<html><body><table>")
	for _, row := range records {
		sb.WriteString("<tr>")
		for _, cell := range row {
			sb.WriteString("<td>")
			sb.WriteString(html.EscapeString(cell))
			sb.WriteString("</td>")
		}
		sb.WriteString("</tr>")
	}
	sb.WriteString("</table></body></html>")
	return docmodel.ParseString(sb.String(), pageURL)
}
