package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/ticketgest/internal/config"
	"github.com/dgallion1/ticketgest/internal/metrics"
)

// ErrStopped is returned by Submit once the orchestrator has been stopped.
var ErrStopped = errors.New("pipeline is stopped")

// Orchestrator manages the extraction job queue and its workers.
type Orchestrator struct {
	jobs      *JobStore
	queue     chan *Job
	extractor *Extractor
	store     TicketStore
	metrics   *metrics.Metrics
	log       *slog.Logger
	cfg       config.Config

	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once

	// mu guards stopped; the queue is closed only while it is held.
	mu      sync.RWMutex
	stopped bool
}

// NewOrchestrator creates the pipeline. store and m may be nil.
func NewOrchestrator(cfg config.Config, extractor *Extractor, store TicketStore, m *metrics.Metrics, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:      NewJobStore(cfg.JobTTL),
		queue:     make(chan *Job, cfg.MaxQueueSize),
		extractor: extractor,
		store:     store,
		metrics:   m,
		log:       log,
		cfg:       cfg,
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.extractor, o.store, o.metrics, o.log)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					o.updateQueueDepth()
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(cleanupInterval(o.cfg.JobTTL))
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				if n := o.jobs.Cleanup(); n > 0 {
					o.log.Debug("expired finished jobs", "count", n)
				}
			}
		}
	}()
}

// Stop cancels in-flight jobs and waits for the workers. Calling it again
// is a no-op.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		if o.cancel != nil {
			o.cancel()
		}
		o.mu.Lock()
		o.stopped = true
		close(o.queue)
		o.mu.Unlock()
		o.wg.Wait()
	})
}

// cleanupInterval sweeps a few times per TTL, at most every five minutes.
func cleanupInterval(ttl time.Duration) time.Duration {
	return min(max(ttl/4, time.Second), 5*time.Minute)
}

// Submit queues a new job for processing. After Stop the job is recorded as
// failed and ErrStopped is returned.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)

	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.stopped {
		o.reject(job, "shutting_down", "pipeline stopped")
		return ErrStopped
	}
	select {
	case o.queue <- job:
		o.updateQueueDepth()
		return nil
	default:
		o.reject(job, "queue_full", "queue full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

func (o *Orchestrator) reject(job *Job, stage, reason string) {
	job.SetStatus(StatusFailed, stage)
	job.AddError(reason)
	job.releaseFileData()
	if o.metrics != nil {
		o.metrics.RecordJob(string(StatusFailed))
	}
	o.log.Warn("job rejected", "job_id", job.ID, "filename", job.Filename, "reason", reason)
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

func (o *Orchestrator) updateQueueDepth() {
	if o.metrics != nil {
		o.metrics.QueueDepth.Set(float64(len(o.queue)))
	}
}
