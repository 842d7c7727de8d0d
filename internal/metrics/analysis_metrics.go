package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// AnalysisMetrics tracks latency and volume of deck analyses.
type AnalysisMetrics struct {
	CoherenceLatency *Histogram
	PrizesLatency    *Histogram
	OptimizeLatency  *Histogram
	LookupLatency    *Histogram

	Analyses       atomic.Uint64
	Optimizations  atomic.Uint64
	Lookups        atomic.Uint64
	LookupFailures atomic.Uint64
	ChangesApplied atomic.Uint64

	mu        sync.RWMutex
	startTime time.Time
}

// NewAnalysisMetrics creates a new metrics collector.
func NewAnalysisMetrics() *AnalysisMetrics {
	return &AnalysisMetrics{
		CoherenceLatency: NewHistogram(defaultHistogramSize),
		PrizesLatency:    NewHistogram(defaultHistogramSize),
		OptimizeLatency:  NewHistogram(defaultHistogramSize),
		LookupLatency:    NewHistogram(defaultHistogramSize),
		startTime:        time.Now(),
	}
}

// RecordCoherence records one coherence validation.
func (m *AnalysisMetrics) RecordCoherence(d time.Duration) {
	m.CoherenceLatency.Record(d)
	m.Analyses.Add(1)
}

// RecordPrizes records one prize-economy analysis.
func (m *AnalysisMetrics) RecordPrizes(d time.Duration) {
	m.PrizesLatency.Record(d)
	m.Analyses.Add(1)
}

// RecordOptimize records one optimizer run and the changes it made.
func (m *AnalysisMetrics) RecordOptimize(d time.Duration, changes int) {
	m.OptimizeLatency.Record(d)
	m.Optimizations.Add(1)
	if changes > 0 {
		m.ChangesApplied.Add(uint64(changes))
	}
}

// RecordLookup records one alternative lookup. Its signature matches the
// optimizer's lookup hook.
func (m *AnalysisMetrics) RecordLookup(d time.Duration, err error) {
	m.LookupLatency.Record(d)
	m.Lookups.Add(1)
	if err != nil {
		m.LookupFailures.Add(1)
	}
}

// Stats is a point-in-time view of the collected metrics.
type Stats struct {
	CoherenceLatency LatencyStats `json:"coherence_latency"`
	PrizesLatency    LatencyStats `json:"prizes_latency"`
	OptimizeLatency  LatencyStats `json:"optimize_latency"`
	LookupLatency    LatencyStats `json:"lookup_latency"`

	Analyses          uint64  `json:"analyses"`
	Optimizations     uint64  `json:"optimizations"`
	Lookups           uint64  `json:"lookups"`
	LookupFailures    uint64  `json:"lookup_failures"`
	ChangesApplied    uint64  `json:"changes_applied"`
	LookupSuccessRate float64 `json:"lookup_success_rate"` // percentage

	Uptime string `json:"uptime"`
}

// LatencyStats summarizes a latency histogram in milliseconds.
type LatencyStats struct {
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// GetStats returns a snapshot of the current statistics.
func (m *AnalysisMetrics) GetStats() *Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	lookups := m.Lookups.Load()
	failures := m.LookupFailures.Load()

	successRate := 0.0
	if lookups > 0 {
		successRate = float64(lookups-failures) / float64(lookups) * 100
	}

	return &Stats{
		CoherenceLatency:  m.CoherenceLatency.Stats(),
		PrizesLatency:     m.PrizesLatency.Stats(),
		OptimizeLatency:   m.OptimizeLatency.Stats(),
		LookupLatency:     m.LookupLatency.Stats(),
		Analyses:          m.Analyses.Load(),
		Optimizations:     m.Optimizations.Load(),
		Lookups:           lookups,
		LookupFailures:    failures,
		ChangesApplied:    m.ChangesApplied.Load(),
		LookupSuccessRate: successRate,
		Uptime:            time.Since(m.startTime).Round(time.Second).String(),
	}
}

// Reset clears all metrics.
func (m *AnalysisMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CoherenceLatency.Reset()
	m.PrizesLatency.Reset()
	m.OptimizeLatency.Reset()
	m.LookupLatency.Reset()

	m.Analyses.Store(0)
	m.Optimizations.Store(0)
	m.Lookups.Store(0)
	m.LookupFailures.Store(0)
	m.ChangesApplied.Store(0)

	m.startTime = time.Now()
}
