package extract

import (
	"regexp"

	"github.com/dgallion1/ticketgest/internal/docmodel"
	"github.com/dgallion1/ticketgest/internal/fields"
)

// DiggersFrameSelector matches the embedded e-mail frame that carries a
// Diggers Hotline ticket. Several copies may exist; only one is on screen.
const DiggersFrameSelector = "#emailuiFrame"

const unknownTicket = "unknown"

var ticketNumberRe = regexp.MustCompile(`Ticket #:\s*(\d+)`)

var (
	contactLabels = map[string]string{
		"Caller":      "caller",
		"Company":     "company",
		"Working For": "workFor",
		"Email":       "email",
		"Cell":        "cell",
	}
	coordinateLabels = map[string]string{
		"Latitude":            "lat",
		"Longitude":           "lon",
		"Secondary Latitude":  "lat2",
		"Secondary Longitude": "lon2",
	}
)

// ExtractDiggers reads a Diggers Hotline ticket from the visible e-mail frame.
// It returns ErrNotFound when no frame is visible or the frame holds no
// document. Missing tables only leave their fields empty.
func ExtractDiggers(doc *docmodel.Document) (*DiggersRecord, error) {
	frame, ok := docmodel.FirstVisible(doc.Query(DiggersFrameSelector))
	if !ok {
		return nil, ErrNotFound
	}
	inner := doc.Frame(frame)
	if inner == nil {
		return nil, ErrNotFound
	}

	rec := &DiggersRecord{Ticket: unknownTicket}
	if m := ticketNumberRe.FindStringSubmatch(inner.RawText()); m != nil {
		rec.Ticket = m[1]
	}

	tables := inner.Query("table")
	if tbl, ok := fields.FindTable(tables, "Caller:"); ok {
		v := fields.ParseLabelTable(tbl, contactLabels)
		rec.Caller = v["caller"]
		rec.Company = v["company"]
		rec.WorkFor = v["workFor"]
		rec.Email = v["email"]
		rec.Cell = v["cell"]
	}
	if tbl, ok := fields.FindTable(tables, "Latitude:"); ok {
		v := fields.ParseLabelTable(tbl, coordinateLabels)
		rec.Lat = v["lat"]
		rec.Lon = v["lon"]
		rec.Lat2 = v["lat2"]
		rec.Lon2 = v["lon2"]
	}
	return rec, nil
}
