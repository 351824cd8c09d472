package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/ticketgest/internal/extract"
	"github.com/dgallion1/ticketgest/internal/loader"
	"github.com/dgallion1/ticketgest/internal/metrics"
	"github.com/dgallion1/ticketgest/internal/report"
)

// Input is one uploaded ticket file.
type Input struct {
	Filename string
	Data     []byte
	// Format may be FormatUnknown to detect it from the document.
	Format extract.Format
	// Origin is the page URL the file was captured from.
	Origin string
}

// Outcome is a finished extraction with its rendered report.
type Outcome struct {
	Result      *extract.Result `json:"result"`
	Report      string          `json:"report"`
	Missing     []string        `json:"missing"`
	ContentHash string          `json:"content_hash"`
}

// Extractor loads a file and runs the matching field extractor. It is safe
// for concurrent use.
type Extractor struct {
	opts    loader.Options
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewExtractor returns an Extractor. m may be nil.
func NewExtractor(opts loader.Options, m *metrics.Metrics, log *slog.Logger) *Extractor {
	return &Extractor{opts: opts, metrics: m, log: log}
}

// Extract loads in and extracts it. The error wraps extract.ErrNotFound when
// no candidate region is visible and extract.ErrUnknownFormat when no format
// applies. Missing fields are reported in the Outcome, never as an error.
func (e *Extractor) Extract(in Input) (*Outcome, error) {
	start := time.Now()
	out, err := e.extract(in)

	format := string(in.Format)
	if out != nil {
		format = string(out.Result.Format)
	}
	outcome := metrics.OutcomeComplete
	var missing []string
	switch {
	case errors.Is(err, extract.ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case err != nil:
		outcome = metrics.OutcomeError
	case len(out.Missing) > 0:
		outcome = metrics.OutcomePartial
		missing = out.Missing
	}
	if e.metrics != nil {
		e.metrics.RecordExtraction(format, outcome, missing, time.Since(start))
		if out != nil {
			for _, a := range out.Result.Attachments {
				e.metrics.RecordAttachment(attachmentExt(a.Filename))
			}
		}
	}
	if e.log != nil {
		e.log.Debug("extraction finished",
			"filename", in.Filename,
			"format", format,
			"outcome", outcome,
			"missing", missing,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
	return out, err
}

func (e *Extractor) extract(in Input) (*Outcome, error) {
	l, err := loader.ForFile(in.Filename, e.opts)
	if err != nil {
		return nil, err
	}
	doc, err := l.Load(bytes.NewReader(in.Data), in.Filename, in.Origin)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", in.Filename, err)
	}

	res, err := extract.Run(in.Format, doc)
	if err != nil {
		return nil, err
	}
	return &Outcome{
		Result:      res,
		Report:      report.Render(res),
		Missing:     res.Missing(),
		ContentHash: ContentHashHex(in.Data),
	}, nil
}

func attachmentExt(name string) string {
	return strings.ToLower(name[strings.LastIndex(name, ".")+1:])
}
