package metrics

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"
)

func TestHistogramStats(t *testing.T) {
	h := NewHistogram(100)
	for i := 1; i <= 5; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}

	s := h.Stats()
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"mean", s.Mean, 3},
		{"p50", s.P50, 3},
		{"p95", s.P95, 4.8},
		{"min", s.Min, 1},
		{"max", s.Max, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if math.Abs(tt.got-tt.want) > 1e-9 {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
	if s.Count != 5 {
		t.Errorf("count = %d, want 5", s.Count)
	}
}

func TestHistogramEmptyAndTrim(t *testing.T) {
	h := NewHistogram(10)
	if s := h.Stats(); s != (LatencyStats{}) {
		t.Errorf("empty stats = %+v, want zero", s)
	}

	for i := 0; i < 11; i++ {
		h.Record(time.Duration(i) * time.Millisecond)
	}
	// The eleventh sample drops the two oldest.
	if got := h.Count(); got != 9 {
		t.Errorf("count after trim = %d, want 9", got)
	}
	if got := h.Stats().Min; got != 2 {
		t.Errorf("min after trim = %v, want 2", got)
	}

	h.Reset()
	if got := h.Count(); got != 0 {
		t.Errorf("count after reset = %d, want 0", got)
	}
}

func TestAnalysisMetrics(t *testing.T) {
	m := NewAnalysisMetrics()
	m.RecordCoherence(2 * time.Millisecond)
	m.RecordPrizes(time.Millisecond)
	m.RecordOptimize(10*time.Millisecond, 3)
	m.RecordOptimize(5*time.Millisecond, 0)
	m.RecordLookup(time.Millisecond, nil)
	m.RecordLookup(time.Millisecond, nil)
	m.RecordLookup(time.Millisecond, nil)
	m.RecordLookup(time.Millisecond, errors.New("timeout"))

	s := m.GetStats()
	if s.Analyses != 2 {
		t.Errorf("analyses = %d, want 2", s.Analyses)
	}
	if s.Optimizations != 2 || s.ChangesApplied != 3 {
		t.Errorf("optimizations = %d, changes = %d, want 2 and 3", s.Optimizations, s.ChangesApplied)
	}
	if s.Lookups != 4 || s.LookupFailures != 1 {
		t.Errorf("lookups = %d, failures = %d, want 4 and 1", s.Lookups, s.LookupFailures)
	}
	if s.LookupSuccessRate != 75 {
		t.Errorf("lookup success rate = %v, want 75", s.LookupSuccessRate)
	}
	if s.OptimizeLatency.Count != 2 {
		t.Errorf("optimize samples = %d, want 2", s.OptimizeLatency.Count)
	}

	m.Reset()
	if s := m.GetStats(); s.Analyses != 0 || s.Lookups != 0 || s.CoherenceLatency.Count != 0 {
		t.Errorf("stats after reset = %+v", s)
	}
}

func TestAnalysisMetricsConcurrent(t *testing.T) {
	m := NewAnalysisMetrics()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordLookup(time.Microsecond, nil)
			}
		}()
	}
	wg.Wait()

	if got := m.GetStats().Lookups; got != 800 {
		t.Errorf("lookups = %d, want 800", got)
	}
}
