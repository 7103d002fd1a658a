package summarizer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRecorder receives one observation per completed summary.
type MetricsRecorder interface {
	Observe(provider string, length int, withinLimit bool, d time.Duration)
}

type promMetrics struct {
	length        *prometheus.HistogramVec
	limitExceeded *prometheus.CounterVec
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

// NewMetrics registers the summary metrics on reg, or on the default
// registerer when reg is nil.
func NewMetrics(reg prometheus.Registerer) MetricsRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &promMetrics{
		length: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "newshub_summary_length_characters",
			Help:    "Length of generated summaries in characters",
			Buckets: []float64{50, 100, 200, 300, 400, 600, 900, 1500, 3000, 5000},
		}, []string{"provider"}),
		limitExceeded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "newshub_summary_limit_exceeded_total",
			Help: "Summaries longer than the configured character limit",
		}, []string{"provider"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "newshub_summary_requests_total",
			Help: "Completed summary requests",
		}, []string{"provider"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "newshub_summary_api_duration_seconds",
			Help:    "Latency of a single provider call",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"provider"}),
	}
}

func (m *promMetrics) Observe(provider string, length int, withinLimit bool, d time.Duration) {
	m.requests.WithLabelValues(provider).Inc()
	m.length.WithLabelValues(provider).Observe(float64(length))
	m.latency.WithLabelValues(provider).Observe(d.Seconds())
	if !withinLimit {
		m.limitExceeded.WithLabelValues(provider).Inc()
	}
}

type nopMetrics struct{}

func (nopMetrics) Observe(string, int, bool, time.Duration) {}
