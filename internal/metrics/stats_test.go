package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStats(window time.Duration) (*LatencyStats, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 5, 14, 9, 0, 0, 0, time.UTC)}
	s := NewLatencyStats(window)
	s.now = clock.now
	return s, clock
}

func TestLatencyStats_Percentiles(t *testing.T) {
	s, _ := newTestStats(time.Hour)
	for _, ms := range []int64{500, 100, 400, 200, 300} {
		s.Record("iupps", time.Duration(ms)*time.Millisecond)
	}

	got := s.Snapshot().Overall
	assert.Equal(t, 5, got.Count)
	assert.Equal(t, int64(100), got.MinMs)
	assert.Equal(t, int64(500), got.MaxMs)
	assert.Equal(t, 300.0, got.AvgMs)
	assert.Equal(t, 300.0, got.P50Ms)
	assert.InDelta(t, 480.0, got.P95Ms, 1e-9)
	assert.InDelta(t, 496.0, got.P99Ms, 1e-9)
}

func TestLatencyStats_PerFormat(t *testing.T) {
	s, _ := newTestStats(time.Hour)
	s.Record("diggers", 40*time.Millisecond)
	s.Record("diggers", 60*time.Millisecond)
	s.Record("attachments", 5*time.Millisecond)

	rep := s.Snapshot()
	assert.Equal(t, 3, rep.Overall.Count)
	require.Len(t, rep.Formats, 2)
	assert.Equal(t, 2, rep.Formats["diggers"].Count)
	assert.Equal(t, 50.0, rep.Formats["diggers"].AvgMs)
	assert.Equal(t, int64(5), rep.Formats["attachments"].MaxMs)
}

func TestLatencyStats_ExpiresOldSamples(t *testing.T) {
	s, clock := newTestStats(time.Minute)
	s.Record("iupps", 100*time.Millisecond)
	clock.advance(30 * time.Second)
	s.Record("iupps", 200*time.Millisecond)
	clock.advance(45 * time.Second)

	got := s.Snapshot().Overall
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, int64(200), got.MinMs)

	clock.advance(time.Hour)
	rep := s.Snapshot()
	assert.Equal(t, LatencySummary{}, rep.Overall)
	assert.Empty(t, rep.Formats)
}

func TestLatencyStats_NegativeDurationIsZero(t *testing.T) {
	s, _ := newTestStats(time.Hour)
	s.Record("iupps", -10*time.Millisecond)

	got := s.Snapshot().Overall
	assert.Equal(t, 1, got.Count)
	assert.Equal(t, int64(0), got.MaxMs)
}

func TestPercentile_Edges(t *testing.T) {
	assert.Equal(t, 0.0, percentile(nil, 50))
	assert.Equal(t, 7.0, percentile([]int64{7}, 99))
	assert.Equal(t, 1.0, percentile([]int64{1, 9}, 0))
	assert.Equal(t, 9.0, percentile([]int64{1, 9}, 100))
	assert.Equal(t, 5.0, percentile([]int64{1, 9}, 50))
}
