// Package metrics records how long each pipeline phase takes.
//
// The phases are load (spreadsheet parse), layout (Compose) and export
// (rasterize, SVG, slides). Collection is on by default and can be disabled
// with GANTT_METRICS=0. `gantt --timings` prints a summary on exit.
//
// Usage:
//
//	func render() {
//	    defer metrics.Timer(metrics.Layout)()
//	    // ...
//	}
package metrics

import (
	"os"
	"time"

	"github.com/easty4690-png/ab-agri-timeline/pkg/debug"
)

// enabled controls whether metrics are collected.
var enabled = os.Getenv("GANTT_METRICS") != "0"

// Enabled returns whether metrics collection is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of metrics collection.
func SetEnabled(e bool) {
	enabled = e
}

// TimingMetric accumulates durations for one named phase. The tool is
// single-threaded, so no synchronisation is done.
type TimingMetric struct {
	name  string
	count int64
	total time.Duration
	max   time.Duration
	min   time.Duration
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !enabled {
		return
	}
	m.count++
	m.total += d
	if d > m.max {
		m.max = d
	}
	if m.min == 0 || d < m.min {
		m.min = d
	}
	debug.LogTiming(m.name, d)
}

// Name returns the metric name.
func (m *TimingMetric) Name() string { return m.name }

// Count returns the number of recorded measurements.
func (m *TimingMetric) Count() int64 { return m.count }

// Stats returns a snapshot of the metric.
func (m *TimingMetric) Stats() TimingStats {
	var avg time.Duration
	if m.count > 0 {
		avg = m.total / time.Duration(m.count)
	}
	return TimingStats{
		Name:    m.name,
		Count:   m.count,
		TotalMs: ms(m.total),
		AvgMs:   ms(avg),
		MaxMs:   ms(m.max),
		MinMs:   ms(m.min),
	}
}

// Reset clears all recorded measurements.
func (m *TimingMetric) Reset() {
	*m = TimingMetric{name: m.name}
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// TimingStats holds a snapshot of timing statistics.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer returns a function that records elapsed time when called.
// Use with defer for automatic timing:
//
//	defer metrics.Timer(metrics.Export)()
func Timer(m *TimingMetric) func() {
	if !enabled || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// Pipeline phases.
var (
	Load   = newTimingMetric("load")
	Layout = newTimingMetric("layout")
	Export = newTimingMetric("export")
)

// AllTimingMetrics returns all registered timing metrics.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{Load, Layout, Export}
}

// ResetAll resets all timing metrics.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
}

// AllTimingStats returns stats for every metric that has data.
func AllTimingStats() []TimingStats {
	var stats []TimingStats
	for _, m := range AllTimingMetrics() {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}
