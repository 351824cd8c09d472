package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/ticketgest/internal/docmodel"
)

// ErrUnknownFormat is returned by Run when no format was given and none
// could be detected.
var ErrUnknownFormat = errors.New("unknown ticket format")

// Result is the output of one extraction. Exactly one of Diggers, IUPPS and
// Attachments is set, matching Format.
type Result struct {
	Format      Format           `json:"format"`
	Filename    string           `json:"filename,omitempty"`
	Diggers     *DiggersRecord   `json:"diggers,omitempty"`
	IUPPS       *IUPPSRecord     `json:"iupps,omitempty"`
	Attachments []AttachmentItem `json:"attachments,omitempty"`
}

// MarshalJSON always emits the attachments key for an attachments result,
// as [] when the visible list held nothing kept.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	if r.Format != FormatAttachments {
		return json.Marshal(plain(r))
	}
	items := r.Attachments
	if items == nil {
		items = []AttachmentItem{}
	}
	return json.Marshal(struct {
		plain
		Attachments []AttachmentItem `json:"attachments"`
	}{plain(r), items})
}

// Missing names the empty fields of the record, if any.
func (r *Result) Missing() []string {
	switch {
	case r.Diggers != nil:
		return r.Diggers.Missing()
	case r.IUPPS != nil:
		return r.IUPPS.Missing()
	}
	return nil
}

// DefaultName reports whether the output filename came from a fallback
// (unknown Diggers ticket number or the default IUPPS name) rather than from
// the document, so different tickets may share it.
func (r *Result) DefaultName() bool {
	switch {
	case r.Diggers != nil:
		return r.Diggers.Ticket == unknownTicket
	case r.IUPPS != nil:
		return r.IUPPS.NameText == defaultIUPPSName
	}
	return false
}

// Detect guesses the ticket format of a document.
func Detect(doc *docmodel.Document) Format {
	if _, ok := docmodel.FirstVisible(doc.Query(DiggersFrameSelector)); ok {
		return FormatDiggers
	}
	if _, ok := docmodel.FirstVisible(doc.Query(AttachmentListSelector)); ok {
		return FormatAttachments
	}
	if len(docmodel.Visible(doc.Query(IUPPSNameSelector))) > 0 || strings.Contains(doc.RawText(), "IUPPS") {
		return FormatIUPPS
	}
	return FormatUnknown
}

// Run extracts a document with the strategy for format, detecting the format
// first when it is FormatUnknown.
func Run(format Format, doc *docmodel.Document) (*Result, error) {
	if format == FormatUnknown {
		format = Detect(doc)
	}

	switch format {
	case FormatDiggers:
		rec, err := ExtractDiggers(doc)
		if err != nil {
			return nil, err
		}
		return &Result{Format: format, Filename: rec.Filename(), Diggers: rec}, nil
	case FormatIUPPS:
		rec, err := ExtractIUPPS(doc)
		if err != nil {
			return nil, err
		}
		return &Result{Format: format, Filename: rec.Filename(), IUPPS: rec}, nil
	case FormatAttachments:
		items, err := ExtractAttachments(doc)
		if err != nil {
			return nil, err
		}
		return &Result{Format: format, Attachments: items}, nil
	case FormatUnknown:
		return nil, ErrUnknownFormat
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
