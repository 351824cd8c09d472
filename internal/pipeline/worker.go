package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/ticketgest/internal/extract"
	"github.com/dgallion1/ticketgest/internal/metrics"
	"github.com/dgallion1/ticketgest/internal/pathstore"
)

// TicketStore persists extracted tickets. *pathstore.Client implements it.
type TicketStore interface {
	SaveTicket(ctx context.Context, t pathstore.Ticket) error
	FindByHash(ctx context.Context, contentHash string) (string, bool, error)
}

// Worker processes a single extraction job.
type Worker struct {
	extractor *Extractor
	store     TicketStore
	metrics   *metrics.Metrics
	log       *slog.Logger
	retry     RetryPolicy
}

// NewWorker returns a worker. store may be nil, in which case results are
// kept on the job only. m may be nil.
func NewWorker(extractor *Extractor, store TicketStore, m *metrics.Metrics, log *slog.Logger) *Worker {
	return &Worker{
		extractor: extractor,
		store:     store,
		metrics:   m,
		log:       log,
		retry:     DefaultRetry,
	}
}

// Process runs load, extract and store for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)
	status := w.process(ctx, log, job)
	job.releaseFileData()
	if w.metrics != nil {
		w.metrics.RecordJob(string(status))
	}
	log.Info("job finished", "status", status)
}

func (w *Worker) process(ctx context.Context, log *slog.Logger, job *Job) JobStatus {
	// Phase 1: Load and dedup
	job.SetStatus(StatusLoading, "loading")
	data := job.FileData()
	hash := ContentHashHex(data)
	job.SetContentHash(hash)

	if w.store != nil {
		key, exists, err := w.store.FindByHash(ctx, hash)
		if err != nil {
			log.Warn("dedup check failed, proceeding", "error", err)
		} else if exists {
			log.Info("duplicate ticket, skipping", "existing_key", key)
			job.SetStoredKey(key)
			job.SetStatus(StatusDupSkipped, "dedup")
			return StatusDupSkipped
		}
	}

	// Phase 2: Extract
	job.SetStatus(StatusExtracting, "extracting")
	out, err := w.extractor.Extract(Input{
		Filename: job.Filename,
		Data:     data,
		Format:   job.Format,
		Origin:   job.Origin,
	})
	switch {
	case errors.Is(err, extract.ErrNotFound):
		log.Info("no ticket region found")
		job.AddError(err.Error())
		job.SetStatus(StatusNotFound, "extracting")
		return StatusNotFound
	case err != nil:
		log.Error("extraction failed", "error", err)
		job.AddError(fmt.Sprintf("extract: %s", err))
		job.SetStatus(StatusFailed, "extracting")
		return StatusFailed
	}
	job.SetOutcome(out)
	if len(out.Missing) > 0 {
		log.Info("partial extraction", "format", out.Result.Format, "missing", out.Missing)
	}

	final := StatusCompleted
	if len(out.Missing) > 0 {
		final = StatusPartial
	}

	// Phase 3: Store
	if w.store == nil {
		job.SetStatus(final, "done")
		return final
	}
	job.SetStatus(StatusStoring, "storing")
	ticket := pathstore.Ticket{
		Format:      string(out.Result.Format),
		Key:         ticketKey(out),
		Filename:    out.Result.Filename,
		Record:      out.Result,
		Report:      out.Report,
		Missing:     out.Missing,
		Source:      "ticketgest:" + job.ID,
		ContentHash: hash,
		CreatedAt:   job.CreatedAt,
	}
	if err := w.saveWithRetry(ctx, log, ticket); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return StatusFailed
	}
	job.SetStoredKey(pathstore.TicketKey(ticket.Format, ticket.Key))
	job.SetStatus(final, "done")
	return final
}

func (w *Worker) saveWithRetry(ctx context.Context, log *slog.Logger, t pathstore.Ticket) error {
	return w.retry.Do(ctx, func() error {
		return w.store.SaveTicket(ctx, t)
	}, func(attempt int, err error) {
		log.Warn("retryable store error", "attempt", attempt, "error", err)
		if w.metrics != nil {
			w.metrics.StoreRetries.Inc()
		}
	})
}

// ticketKey names a stored ticket: the output filename without its
// extension ("attachments" for attachment lists), made unique by the content
// hash.
func ticketKey(out *Outcome) string {
	name := strings.TrimSuffix(out.Result.Filename, ".txt")
	if name == "" {
		name = "attachments"
	}
	return pathstore.TicketName(name, out.ContentHash)
}
