package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ledgerforge/datasynth/internal/streaming"
)

// apiMetrics mirrors the service-wide streaming.Metrics snapshot as
// prometheus gauges, scraped at GET /metrics alongside the default
// Go/process collectors, per the teacher's prometheus/client_golang
// wiring for its own service metrics.
type apiMetrics struct {
	registry          *prometheus.Registry
	totalEntries      prometheus.Gauge
	totalAnomalies    prometheus.Gauge
	activeStreams     prometheus.Gauge
	totalStreamEvents prometheus.Gauge
	uptimeSeconds     prometheus.Gauge
}

func newAPIMetrics() *apiMetrics {
	m := &apiMetrics{
		registry: prometheus.NewRegistry(),
		totalEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "datasynth", Name: "total_entries", Help: "Total journal entries generated.",
		}),
		totalAnomalies: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "datasynth", Name: "total_anomalies", Help: "Total anomaly labels injected.",
		}),
		activeStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "datasynth", Name: "active_streams", Help: "Currently open streaming sessions.",
		}),
		totalStreamEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "datasynth", Name: "total_stream_events", Help: "Total events delivered over all streams.",
		}),
		uptimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "datasynth", Name: "uptime_seconds", Help: "Seconds since the service started.",
		}),
	}
	m.registry.MustRegister(
		m.totalEntries, m.totalAnomalies, m.activeStreams,
		m.totalStreamEvents, m.uptimeSeconds,
	)
	return m
}

func (m *apiMetrics) observe(snap streaming.Metrics) {
	m.totalEntries.Set(float64(snap.TotalEntries))
	m.totalAnomalies.Set(float64(snap.TotalAnomalies))
	m.activeStreams.Set(float64(snap.ActiveStreams))
	m.totalStreamEvents.Set(float64(snap.TotalStreamEvents))
	m.uptimeSeconds.Set(snap.UptimeSeconds)
}
