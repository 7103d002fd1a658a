package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// refreshTicksTotal counts scheduled refresh executions per view and outcome.
	refreshTicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "live_refresh_ticks_total",
			Help: "Total number of scheduled live refresh executions",
		},
		[]string{"view", "outcome"}, // outcome: success|failure
	)

	// refreshInFlight tracks refresh callbacks currently executing.
	refreshInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "live_refresh_in_flight",
			Help: "Number of live refresh callbacks currently executing",
		},
		[]string{"view"},
	)

	// activeSchedulers tracks armed schedulers.
	activeSchedulers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_active_schedulers",
			Help: "Number of armed live refresh schedulers",
		},
	)
)
