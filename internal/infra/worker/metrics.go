package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"newshub/internal/pkg/config"
)

// Run outcomes.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Metrics are the worker's Prometheus series, including the embedded
// worker_config_* configuration metrics.
type Metrics struct {
	*config.ConfigMetrics

	RunsTotal          *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	UpdatesFetched     prometheus.Counter
	NewHeadsTotal      prometheus.Counter
	LastSuccessSeconds prometheus.Gauge
}

// NewMetrics registers the worker metrics with reg. A nil reg uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		ConfigMetrics: config.NewConfigMetrics("worker", reg),
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_live_feed_runs_total",
			Help: "Live feed refresh runs by status",
		}, []string{"status"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_live_feed_run_duration_seconds",
			Help:    "Duration of a live feed refresh run",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		UpdatesFetched: f.NewCounter(prometheus.CounterOpts{
			Name: "worker_live_feed_updates_fetched_total",
			Help: "Live updates fetched across all runs",
		}),
		NewHeadsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "worker_live_feed_new_heads_total",
			Help: "Runs that found a new head update",
		}),
		LastSuccessSeconds: f.NewGauge(prometheus.GaugeOpts{
			Name: "worker_live_feed_last_success_timestamp",
			Help: "Unix timestamp of the last successful run",
		}),
	}
}

func (m *Metrics) recordRun(status string, seconds float64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(seconds)
	if status == StatusSuccess {
		m.LastSuccessSeconds.SetToCurrentTime()
	}
}
