// Package fields holds the format-agnostic parsers: label/value tables,
// label-anchored text patterns, and ordered fallback cascades.
package fields

import (
	"strings"

	"github.com/dgallion1/ticketgest/internal/docmodel"
)

// NormalizeLabel trims a label cell and drops one trailing colon.
func NormalizeLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ":")
	return strings.TrimSpace(s)
}

// ParseLabelTable scans every row of table for label/value cell pairs
// (cell i is a label, cell i+1 its value) and maps known labels to their
// target field. labels maps a normalized label to a field name.
//
// A label repeated anywhere in the table overwrites the earlier value: the
// last occurrence wins. A trailing unpaired cell in a row is ignored. Only
// fields actually found appear in the result.
func ParseLabelTable(table docmodel.Node, labels map[string]string) map[string]string {
	out := make(map[string]string)
	for _, row := range table.Query("tr") {
		cells := row.Query("td")
		for i := 0; i+1 < len(cells); i += 2 {
			field, ok := labels[NormalizeLabel(cells[i].Text())]
			if !ok {
				continue
			}
			out[field] = strings.TrimSpace(cells[i+1].Text())
		}
	}
	return out
}

// FindTable returns the first table that has a cell whose trimmed text
// starts with prefix.
func FindTable(tables []docmodel.Node, prefix string) (docmodel.Node, bool) {
	for _, tbl := range tables {
		for _, cell := range tbl.Query("td") {
			if strings.HasPrefix(strings.TrimSpace(cell.Text()), prefix) {
				return tbl, true
			}
		}
	}
	return docmodel.Node{}, false
}
