// Package prometheus exports run progress as Prometheus metrics.
package prometheus

import (
	"net/http"

	wikidump "github.com/llamasoft/WikiDump"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the progress gauges of a run on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	seen       prometheus.Gauge
	kept       prometheus.Gauge
	bytesRead  prometheus.Gauge
	bytesTotal prometheus.Gauge
	started    prometheus.Gauge
}

// NewMetrics creates and registers the progress gauges.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		seen: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wikidump_articles_seen",
			Help: "Structurally valid pages read from the dump",
		}),
		kept: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wikidump_articles_kept",
			Help: "Articles dispatched for normalization",
		}),
		bytesRead: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wikidump_input_bytes_read",
			Help: "Input bytes consumed",
		}),
		bytesTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wikidump_input_bytes_total",
			Help: "Input size in bytes, 0 if unknown",
		}),
		started: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "wikidump_run_start_time_seconds",
			Help: "Unix time the run started",
		}),
	}
	m.registry.MustRegister(m.seen, m.kept, m.bytesRead, m.bytesTotal, m.started)
	return m
}

// Observe records a progress snapshot. Its signature matches
// wikidump.ProgressFunc.
func (m *Metrics) Observe(p wikidump.Progress) {
	m.seen.Set(float64(p.Seen))
	m.kept.Set(float64(p.Kept))
	m.bytesRead.Set(float64(p.BytesRead))
	m.bytesTotal.Set(float64(p.BytesTotal))
	if !p.Started.IsZero() {
		m.started.Set(float64(p.Started.Unix()))
	}
}

// Handler serves the gauges in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
