package gateway

import (
	"sort"
	"sync"
	"time"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
	failed     bool
}

// LatencySnapshot aggregates the samples of one operation.
type LatencySnapshot struct {
	Count  int     `json:"count"`
	Failed int     `json:"failed"`
	MinMs  int64   `json:"min_ms"`
	MaxMs  int64   `json:"max_ms"`
	AvgMs  float64 `json:"avg_ms"`
	P50Ms  float64 `json:"p50_ms"`
	P95Ms  float64 `json:"p95_ms"`
	P99Ms  float64 `json:"p99_ms"`
}

// Latency tracks remote call latencies per operation within a rolling window.
type Latency struct {
	mu      sync.Mutex
	samples map[Op][]sample
	maxAge  time.Duration
	now     func() time.Time
}

func NewLatency(maxAge time.Duration) *Latency {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Latency{
		samples: make(map[Op][]sample),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

func (l *Latency) Record(op Op, d time.Duration, failed bool) {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.pruneLocked(op, now)
	l.samples[op] = append(l.samples[op], sample{timestamp: now, durationMs: ms, failed: failed})
}

// Snapshot returns an aggregate for every operation that has live samples.
func (l *Latency) Snapshot() map[Op]LatencySnapshot {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[Op]LatencySnapshot, len(l.samples))
	for op := range l.samples {
		l.pruneLocked(op, now)
		if s := l.samples[op]; len(s) > 0 {
			out[op] = aggregate(s)
		}
	}
	return out
}

func aggregate(samples []sample) LatencySnapshot {
	values := make([]int64, 0, len(samples))
	var sum int64
	failed := 0
	for _, sm := range samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
		if sm.failed {
			failed++
		}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return LatencySnapshot{
		Count:  len(values),
		Failed: failed,
		MinMs:  values[0],
		MaxMs:  values[len(values)-1],
		AvgMs:  float64(sum) / float64(len(values)),
		P50Ms:  percentile(values, 50),
		P95Ms:  percentile(values, 95),
		P99Ms:  percentile(values, 99),
	}
}

func (l *Latency) pruneLocked(op Op, now time.Time) {
	cutoff := now.Add(-l.maxAge)
	s := l.samples[op]
	keep := s[:0]
	for _, sm := range s {
		if !sm.timestamp.Before(cutoff) {
			keep = append(keep, sm)
		}
	}
	if len(keep) == 0 {
		delete(l.samples, op)
		return
	}
	l.samples[op] = keep
}

// percentile interpolates linearly between the two nearest ranks.
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
	index := (float64(len(sorted)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return float64(sorted[lower])
	}
	weight := index - float64(lower)
	lo, hi := float64(sorted[lower]), float64(sorted[upper])
	return lo + (hi-lo)*weight
}
