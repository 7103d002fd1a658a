package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts limiter decisions. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	tracked  prometheus.Gauge
}

// NewMetrics registers the limiter metrics on reg, or on the default
// registry when reg is nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "newshub_rate_limit_requests_total",
			Help: "Requests seen by the rate limiter by decision",
		}, []string{"decision"}),
		tracked: f.NewGauge(prometheus.GaugeOpts{
			Name: "newshub_rate_limit_tracked_keys",
			Help: "Client keys currently holding a bucket",
		}),
	}
}

func (m *Metrics) observe(allowed bool, tracked int) {
	if m == nil {
		return
	}
	decision := "allowed"
	if !allowed {
		decision = "denied"
	}
	m.requests.WithLabelValues(decision).Inc()
	m.tracked.Set(float64(tracked))
}

func (m *Metrics) setTracked(n int) {
	if m == nil {
		return
	}
	m.tracked.Set(float64(n))
}
