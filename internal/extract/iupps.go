package extract

import (
	"regexp"
	"strings"

	"github.com/dgallion1/ticketgest/internal/docmodel"
	"github.com/dgallion1/ticketgest/internal/fields"
)

// IUPPSNameSelector matches the record page's formatted output fields, one
// of which holds the ticket subject.
const IUPPSNameSelector = `lightning-formatted-text[data-output-element-id="output-field"]`

const defaultIUPPSName = "IUPPS_Ticket"

var (
	datedNameRe   = regexp.MustCompile(`\d{4}/\d{2}/\d{2}`)
	iuppsLineRe   = regexp.MustCompile(`(?m)^IUPPS[^\r\n]*`)
	editSubjectRe = regexp.MustCompile(`(?i)\s*Edit\s*Subject$`)
	boundaryRe    = regexp.MustCompile(`(?i)Boundary\s*:\s*n\s*([\d.]+)\s*s\s*([\d.]+)\s*w\s*([-\d.]+)\s*e\s*([-\d.]+)`)
)

// iuppsPage is what the name strategies look at.
type iuppsPage struct {
	text   string
	fields []docmodel.Node
}

var iuppsNameStrategies = []fields.Strategy[*iuppsPage]{
	{Name: "dated-output-field", Fn: func(p *iuppsPage) string {
		for _, n := range p.fields {
			if t := strings.TrimSpace(n.InnerText()); datedNameRe.MatchString(t) {
				return t
			}
		}
		return ""
	}},
	{Name: "first-output-field", Fn: func(p *iuppsPage) string {
		if len(p.fields) == 0 {
			return ""
		}
		return strings.TrimSpace(p.fields[0].InnerText())
	}},
	{Name: "iupps-line", Fn: func(p *iuppsPage) string {
		return strings.TrimSpace(iuppsLineRe.FindString(p.text))
	}},
	fields.Const[*iuppsPage]("default", defaultIUPPSName),
}

func iuppsRules() []fields.Rule {
	caller := fields.LineRule("caller", "Caller")
	caller.Until = regexp.MustCompile(`(?i)\s*(Phone|Mobile)\s*:`)

	return []fields.Rule{
		fields.LineRule("company", "Company"),
		fields.LineRule("type", "Type"),
		caller,
		fields.LineRule("phone", "Phone"),
		fields.LineRule("phone", "Mobile"),
		fields.LineRule("email", "Email"),
		{Field: "latN", Pattern: boundaryRe, Group: 1},
		{Field: "latS", Pattern: boundaryRe, Group: 2},
		{Field: "lonW", Pattern: boundaryRe, Group: 3},
		{Field: "lonE", Pattern: boundaryRe, Group: 4},
	}
}

var iuppsFieldRules = iuppsRules()

// ExtractIUPPS reads an IUPPS ticket from the visible text of a record page.
// Every field falls back to "" and the name to "IUPPS_Ticket", so the only
// error is ErrNotFound for a nil document.
func ExtractIUPPS(doc *docmodel.Document) (*IUPPSRecord, error) {
	if doc == nil {
		return nil, ErrNotFound
	}
	page := &iuppsPage{
		text:   doc.RawText(),
		fields: docmodel.Visible(doc.Query(IUPPSNameSelector)),
	}

	name, _ := fields.Cascade(page, iuppsNameStrategies...)
	name = strings.TrimSpace(editSubjectRe.ReplaceAllString(name, ""))

	v := fields.ExtractPatterns(page.text, iuppsFieldRules)
	return &IUPPSRecord{
		NameText: name,
		Company:  v["company"],
		Type:     v["type"],
		Caller:   v["caller"],
		Phone:    v["phone"],
		Email:    v["email"],
		LonW:     v["lonW"],
		LatN:     v["latN"],
		LonE:     v["lonE"],
		LatS:     v["latS"],
	}, nil
}
