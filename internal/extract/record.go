package extract

import "errors"

// ErrNotFound means no visible candidate region (frame or attachment list)
// exists, so nothing could be extracted. Field-level misses never produce an
// error; they leave the field empty.
var ErrNotFound = errors.New("no visible candidate region")

// Format names a ticket layout with its own extraction strategy.
type Format string

const (
	FormatUnknown     Format = ""
	FormatDiggers     Format = "diggers"
	FormatIUPPS       Format = "iupps"
	FormatAttachments Format = "attachments"
)

// ParseFormat maps a user-supplied name to a Format. "auto" and "" map to
// FormatUnknown, meaning "detect from the document".
func ParseFormat(s string) (Format, bool) {
	switch Format(s) {
	case FormatDiggers, FormatIUPPS, FormatAttachments:
		return Format(s), true
	case "", "auto":
		return FormatUnknown, true
	}
	return FormatUnknown, false
}

// Field is one named value of a record, in declaration order.
type Field struct {
	Name  string
	Value string
}

// DiggersRecord is a Diggers Hotline ticket. Coordinates are kept verbatim.
type DiggersRecord struct {
	Ticket  string `json:"ticket"`
	Caller  string `json:"caller"`
	Company string `json:"company"`
	WorkFor string `json:"workFor"`
	Email   string `json:"email"`
	Cell    string `json:"cell"`
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Lat2    string `json:"lat2"`
	Lon2    string `json:"lon2"`
}

// Fields lists every field of the record in a fixed order.
func (r *DiggersRecord) Fields() []Field {
	return []Field{
		{"ticket", r.Ticket},
		{"caller", r.Caller},
		{"company", r.Company},
		{"workFor", r.WorkFor},
		{"email", r.Email},
		{"cell", r.Cell},
		{"lat", r.Lat},
		{"lon", r.Lon},
		{"lat2", r.Lat2},
		{"lon2", r.Lon2},
	}
}

// Missing names the fields that came back empty.
func (r *DiggersRecord) Missing() []string { return missing(r.Fields()) }

// Filename is the suggested output name for the record.
func (r *DiggersRecord) Filename() string { return DiggersFilename(r.Ticket) }

// IUPPSRecord is an IUPPS ticket read from a record page.
type IUPPSRecord struct {
	NameText string `json:"nameText"`
	Company  string `json:"company"`
	Type     string `json:"type"`
	Caller   string `json:"caller"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	LonW     string `json:"lonW"`
	LatN     string `json:"latN"`
	LonE     string `json:"lonE"`
	LatS     string `json:"latS"`
}

func (r *IUPPSRecord) Fields() []Field {
	return []Field{
		{"nameText", r.NameText},
		{"company", r.Company},
		{"type", r.Type},
		{"caller", r.Caller},
		{"phone", r.Phone},
		{"email", r.Email},
		{"lonW", r.LonW},
		{"latN", r.LatN},
		{"lonE", r.LonE},
		{"latS", r.LatS},
	}
}

func (r *IUPPSRecord) Missing() []string { return missing(r.Fields()) }

func (r *IUPPSRecord) Filename() string { return IUPPSFilename(r.NameText) }

// AttachmentItem is a downloadable ticket attachment. URL always points at a
// download endpoint, never a viewer page.
type AttachmentItem struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

func missing(fields []Field) []string {
	var out []string
	for _, f := range fields {
		if f.Value == "" {
			out = append(out, f.Name)
		}
	}
	return out
}
