// Package metrics provides Prometheus metrics for ticketgest.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded for an extraction.
const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds all Prometheus metrics for the service. Each instance owns
// its registry, so tests and multiple servers never collide.
type Metrics struct {
	Registry *prometheus.Registry

	// Extraction metrics
	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
	MissingFieldsTotal *prometheus.CounterVec
	AttachmentsTotal   *prometheus.CounterVec

	// Job metrics
	JobsTotal    *prometheus.CounterVec
	QueueDepth   prometheus.Gauge
	StoreRetries prometheus.Counter

	// HTTP metrics
	HTTPRequestsTotal *prometheus.CounterVec

	// Rolling latency window for the stats endpoint.
	Latency *LatencyStats
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	m := &Metrics{
		Registry: reg,
		Latency:  NewLatencyStats(time.Hour),
	}

	m.ExtractionsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketgest_extractions_total",
			Help: "Total number of extractions by format and outcome",
		},
		[]string{"format", "outcome"},
	)

	m.ExtractionDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticketgest_extraction_duration_seconds",
			Help:    "Duration of load plus extraction in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"format"},
	)

	m.MissingFieldsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketgest_missing_fields_total",
			Help: "Fields that came back empty, by format and field",
		},
		[]string{"format", "field"},
	)

	m.AttachmentsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketgest_attachments_total",
			Help: "Attachment links returned, by file extension",
		},
		[]string{"ext"},
	)

	m.JobsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketgest_jobs_total",
			Help: "Finished extraction jobs by final status",
		},
		[]string{"status"},
	)

	m.QueueDepth = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketgest_queue_depth",
			Help: "Jobs waiting for a worker",
		},
	)

	m.StoreRetries = f.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketgest_store_retries_total",
			Help: "Retried writes to the record store",
		},
	)

	m.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketgest_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "code"},
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RecordExtraction records one extraction attempt.
func (m *Metrics) RecordExtraction(format, outcome string, missing []string, duration time.Duration) {
	if format == "" {
		format = "unknown"
	}
	m.ExtractionsTotal.WithLabelValues(format, outcome).Inc()
	m.ExtractionDuration.WithLabelValues(format).Observe(duration.Seconds())
	for _, field := range missing {
		m.MissingFieldsTotal.WithLabelValues(format, field).Inc()
	}
	m.Latency.Record(format, duration)
}

// RecordAttachment counts one returned attachment link.
func (m *Metrics) RecordAttachment(ext string) {
	m.AttachmentsTotal.WithLabelValues(ext).Inc()
}

// RecordJob counts a job reaching a final status.
func (m *Metrics) RecordJob(status string) {
	m.JobsTotal.WithLabelValues(status).Inc()
}
