package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	notificationDispatchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_notification_dispatched_total",
			Help: "Total number of live update notifications dispatched",
		},
		[]string{"channel"},
	)

	// status: success|failure
	notificationSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_notification_sent_total",
			Help: "Total number of live update notifications sent",
		},
		[]string{"channel", "status"},
	)

	notificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newshub_notification_duration_seconds",
			Help:    "Notification send duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"channel"},
	)

	circuitBreakerOpenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_notification_circuit_breaker_open_total",
			Help: "Total number of notification circuit breaker open events",
		},
		[]string{"channel"},
	)

	// reason: pool_full|circuit_open|shutdown
	notificationDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_notification_dropped_total",
			Help: "Total number of dropped notifications",
		},
		[]string{"channel", "reason"},
	)

	activeNotifications = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newshub_notification_active_goroutines",
			Help: "Number of in-flight notification goroutines",
		},
	)

	channelsEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newshub_notification_channels_enabled",
			Help: "Number of enabled notification channels",
		},
	)
)

func recordResult(channel string, err error, duration time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	notificationSentTotal.WithLabelValues(channel, status).Inc()
	notificationDuration.WithLabelValues(channel).Observe(duration.Seconds())
}

func recordDropped(channel, reason string) {
	notificationDroppedTotal.WithLabelValues(channel, reason).Inc()
}
