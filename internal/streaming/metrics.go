package streaming

import (
	"sync/atomic"
	"time"
)

// metricsState holds the service-wide atomic counters exposed by
// GetMetrics, per spec.md §4.9/§5's "atomic counters" requirement.
type metricsState struct {
	totalEntries      atomic.Uint64
	totalAnomalies    atomic.Uint64
	activeStreams     atomic.Int64
	totalStreamEvents atomic.Uint64
	startedAt         time.Time
}

func newMetricsState() *metricsState {
	return &metricsState{startedAt: time.Now()}
}

func (m *metricsState) snapshot() Metrics {
	return Metrics{
		TotalEntries:      m.totalEntries.Load(),
		TotalAnomalies:    m.totalAnomalies.Load(),
		ActiveStreams:     m.activeStreams.Load(),
		TotalStreamEvents: m.totalStreamEvents.Load(),
		UptimeSeconds:     time.Since(m.startedAt).Seconds(),
	}
}
