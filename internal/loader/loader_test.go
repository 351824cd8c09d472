package loader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dgallion1/ticketgest/internal/extract"
	"github.com/dgallion1/ticketgest/internal/fields"
	"github.com/fumiama/go-docx"
)

func TestForFile(t *testing.T) {
	cases := map[string]string{
		"ticket.html":  "*loader.HTMLLoader",
		"TICKET.HTM":   "*loader.HTMLLoader",
		"notes.md":     "*loader.MarkdownLoader",
		"mail.txt":     "*loader.TextLoader",
		"export.csv":   "*loader.CSVLoader",
		"printout.pdf": "*loader.PDFLoader",
		"form.docx":    "*loader.DOCXLoader",
	}
	for name, want := range cases {
		l, err := ForFile(name, Options{})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got := typeName(l); got != want {
			t.Errorf("%s: expected %s, got %s", name, want, got)
		}
	}

	if _, err := ForFile("ticket.gml", Options{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("A.DOCX") {
		t.Error("expected .DOCX to be supported")
	}
	if IsSupportedExtension("archive.zip") {
		t.Error("expected .zip to be unsupported")
	}
}

func TestTextLoader_PreservesLines(t *testing.T) {
	input := "IUPPS 2024/05/14 - 1\nCompany: ACME <Utilities>\nCaller: Jane Doe\n"
	doc, err := (&TextLoader{}).Load(strings.NewReader(input), "mail.txt", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "IUPPS 2024/05/14 - 1\nCompany: ACME <Utilities>\nCaller: Jane Doe"
	if got := doc.RawText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestTextLoader_FeedsIUPPSExtraction(t *testing.T) {
	input := "IUPPS 2024/05/14 - 2405140123\nCompany: ACME\nType: NORMAL\nCaller: Jane Doe\nPhone: 555-1111\n"
	doc, err := (&TextLoader{}).Load(strings.NewReader(input), "mail.txt", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := extract.Run(extract.FormatUnknown, doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Format != extract.FormatIUPPS {
		t.Fatalf("expected iupps, got %q", res.Format)
	}
	if res.IUPPS.NameText != "IUPPS 2024/05/14 - 2405140123" {
		t.Errorf("unexpected name %q", res.IUPPS.NameText)
	}
	if res.IUPPS.Company != "ACME" || res.IUPPS.Caller != "Jane Doe" || res.IUPPS.Phone != "555-1111" {
		t.Errorf("unexpected record %+v", res.IUPPS)
	}
}

func TestTextLoader_Empty(t *testing.T) {
	doc, err := (&TextLoader{}).Load(strings.NewReader(""), "empty.txt", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.RawText() != "" {
		t.Errorf("expected empty text, got %q", doc.RawText())
	}
}

func TestHTMLLoader_KeepsPageURL(t *testing.T) {
	src := `<p><a href="/lightning/r/ContentDocument/069X/view">a.gml</a></p>`
	doc, err := (&HTMLLoader{}).Load(strings.NewReader(src), "page.html", "https://org.example.com/lightning/r/Case/1/view")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Origin() != "https://org.example.com" {
		t.Errorf("unexpected origin %q", doc.Origin())
	}
	links := doc.Query("a")
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	want := "https://org.example.com/lightning/r/ContentDocument/069X/view"
	if got := doc.ResolveURL(links[0].AttrOr("href", "")); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdownLoader_TableBecomesLabelTable(t *testing.T) {
	input := `# Ticket

| Label | Value |
|-------|-------|
| Caller: | Jane Doe |
| Company: | ACME |
`
	doc, err := (&MarkdownLoader{}).Load(strings.NewReader(input), "notes.md", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tables := doc.Query("table")
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	got := fields.ParseLabelTable(tables[0], map[string]string{"Caller": "caller", "Company": "company"})
	if got["caller"] != "Jane Doe" {
		t.Errorf("expected caller %q, got %q", "Jane Doe", got["caller"])
	}
	if got["company"] != "ACME" {
		t.Errorf("expected company %q, got %q", "ACME", got["company"])
	}
}

func TestMarkdownLoader_KeepsInlineHTML(t *testing.T) {
	input := "Notes\n\n<div data-visible=\"false\">secret</div>\n\nVisible line\n"
	doc, err := (&MarkdownLoader{}).Load(strings.NewReader(input), "notes.md", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(doc.RawText(), "secret") {
		t.Errorf("hidden block leaked into text: %q", doc.RawText())
	}
	if !strings.Contains(doc.RawText(), "Visible line") {
		t.Errorf("expected visible text, got %q", doc.RawText())
	}
}

func TestCSVLoader_RowsBecomeTable(t *testing.T) {
	input := "Latitude:,43.07\nLongitude:,-89.40\n\"Work Being Done For:\",\"City, Madison\"\n"
	doc, err := (&CSVLoader{}).Load(strings.NewReader(input), "export.csv", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tables := doc.Query("table")
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	got := fields.ParseLabelTable(tables[0], map[string]string{
		"Latitude":            "lat",
		"Longitude":           "lon",
		"Work Being Done For": "workFor",
	})
	if got["lat"] != "43.07" || got["lon"] != "-89.40" {
		t.Errorf("unexpected coordinates %v", got)
	}
	if got["workFor"] != "City, Madison" {
		t.Errorf("expected quoted cell, got %q", got["workFor"])
	}
}

func TestDOCXLoader_Paragraphs(t *testing.T) {
	w := docx.New().WithDefaultTheme()
	w.AddParagraph().AddText("IUPPS 2024/05/14 - 77")
	w.AddParagraph().AddText("Company: ACME")

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}

	doc, err := (&DOCXLoader{}).Load(&buf, "form.docx", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "IUPPS 2024/05/14 - 77\nCompany: ACME"
	if got := doc.RawText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestPDFLoader_RejectsGarbage(t *testing.T) {
	_, err := (&PDFLoader{}).Load(strings.NewReader("not a pdf"), "broken.pdf", "")
	if err == nil {
		t.Fatal("expected error for invalid pdf")
	}
}

func typeName(l Loader) string {
	switch l.(type) {
	case *HTMLLoader:
		return "*loader.HTMLLoader"
	case *MarkdownLoader:
		return "*loader.MarkdownLoader"
	case *TextLoader:
		return "*loader.TextLoader"
	case *CSVLoader:
		return "*loader.CSVLoader"
	case *PDFLoader:
		return "*loader.PDFLoader"
	case *DOCXLoader:
		return "*loader.DOCXLoader"
	}
	return "unknown"
}
