package metrics

import (
	"slices"
	"sync"
	"time"
)

type latencySample struct {
	at     time.Time
	format string
	ms     int64
}

// LatencySummary aggregates the extraction latencies of one window.
type LatencySummary struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// LatencyReport is the overall summary plus one summary per ticket format.
type LatencyReport struct {
	Overall LatencySummary            `json:"overall"`
	Formats map[string]LatencySummary `json:"formats"`
}

// LatencyStats keeps the extraction latencies of a rolling window for the
// stats endpoint. Prometheus histograms cover the long-term view.
type LatencyStats struct {
	mu      sync.Mutex
	window  time.Duration
	samples []latencySample
	now     func() time.Time
}

// NewLatencyStats returns stats over the given window, one hour if window
// is not positive.
func NewLatencyStats(window time.Duration) *LatencyStats {
	if window <= 0 {
		window = time.Hour
	}
	return &LatencyStats{
		window:  window,
		samples: make([]latencySample, 0, 256),
		now:     time.Now,
	}
}

// Record adds one extraction. Negative durations count as zero.
func (s *LatencyStats) Record(format string, d time.Duration) {
	ms := max(d.Milliseconds(), 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.expireLocked(now)
	s.samples = append(s.samples, latencySample{at: now, format: format, ms: ms})
}

// Snapshot summarizes the samples still inside the window.
func (s *LatencyStats) Snapshot() LatencyReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(s.now())

	all := make([]int64, 0, len(s.samples))
	byFormat := make(map[string][]int64)
	for _, sm := range s.samples {
		all = append(all, sm.ms)
		byFormat[sm.format] = append(byFormat[sm.format], sm.ms)
	}

	rep := LatencyReport{
		Overall: summarize(all),
		Formats: make(map[string]LatencySummary, len(byFormat)),
	}
	for f, vals := range byFormat {
		rep.Formats[f] = summarize(vals)
	}
	return rep
}

// expireLocked drops samples older than the window. Samples are appended in
// time order, so the expired ones form a prefix.
func (s *LatencyStats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	i := 0
	for i < len(s.samples) && s.samples[i].at.Before(cutoff) {
		i++
	}
	if i > 0 {
		s.samples = slices.Delete(s.samples, 0, i)
	}
}

func summarize(vals []int64) LatencySummary {
	if len(vals) == 0 {
		return LatencySummary{}
	}
	slices.Sort(vals)

	var sum int64
	for _, v := range vals {
		sum += v
	}
	return LatencySummary{
		Count: len(vals),
		MinMs: vals[0],
		MaxMs: vals[len(vals)-1],
		AvgMs: float64(sum) / float64(len(vals)),
		P50Ms: percentile(vals, 50),
		P95Ms: percentile(vals, 95),
		P99Ms: percentile(vals, 99),
	}
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lo := int(rank)
	if lo+1 >= len(sorted) {
		return float64(sorted[lo])
	}
	frac := rank - float64(lo)
	return float64(sorted[lo]) + float64(sorted[lo+1]-sorted[lo])*frac
}
