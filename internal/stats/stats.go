// Package stats keeps rolling-window latency figures for pipeline operations.
package stats

import (
	"slices"
	"sync"
	"time"
)

// Operation names recorded by the pipeline.
const (
	OpSplit = "split"
	OpChunk = "chunk"
)

type sample struct {
	at       time.Time
	duration time.Duration
	nodes    int
}

// Snapshot aggregates the samples of one operation.
type Snapshot struct {
	Count int     `json:"count"`
	Nodes int     `json:"nodes"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
	P99Ms float64 `json:"p99_ms"`
}

// Latency tracks recent operation durations within a rolling window.
type Latency struct {
	mu      sync.Mutex
	samples map[string][]sample
	window  time.Duration
	now     func() time.Time
}

func NewLatency(window time.Duration) *Latency {
	if window <= 0 {
		window = time.Hour
	}
	return &Latency{
		samples: make(map[string][]sample),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one sample for op. nodes is the number of atomic nodes the
// call produced.
func (l *Latency) Record(op string, d time.Duration, nodes int) {
	if d < 0 {
		d = 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	l.samples[op] = append(l.samples[op], sample{at: now, duration: d, nodes: nodes})
}

// Snapshot returns per-operation aggregates. Operations with no sample left
// in the window are omitted.
func (l *Latency) Snapshot() map[string]Snapshot {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(now)
	out := make(map[string]Snapshot, len(l.samples))
	for op, samples := range l.samples {
		out[op] = summarize(samples)
	}
	return out
}

func summarize(samples []sample) Snapshot {
	values := make([]int64, 0, len(samples))
	var sum int64
	nodes := 0
	for _, s := range samples {
		ms := s.duration.Milliseconds()
		values = append(values, ms)
		sum += ms
		nodes += s.nodes
	}
	slices.Sort(values)

	return Snapshot{
		Count: len(values),
		Nodes: nodes,
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
	}
}

func (l *Latency) pruneLocked(now time.Time) {
	cutoff := now.Add(-l.window)
	for op, samples := range l.samples {
		kept := samples[:0]
		for _, s := range samples {
			if !s.at.Before(cutoff) {
				kept = append(kept, s)
			}
		}
		if len(kept) == 0 {
			delete(l.samples, op)
			continue
		}
		l.samples[op] = kept
	}
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sorted[0])
	}
	if pct >= 100 {
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100.0
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := rank - float64(lower)
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*weight
}
