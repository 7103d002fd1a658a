// Package metrics holds the process-wide Prometheus collectors of the API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// namespace prefixes every metric this service exports.
const namespace = "newshub"

// Request metrics are labelled by normalized path so ids do not explode cardinality.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by method, route and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15},
		},
		[]string{"method", "path", "status"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "response_size_bytes",
			Help:      "API response body size",
			Buckets:   prometheus.ExponentialBuckets(128, 4, 8),
		},
		[]string{"method", "path"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Requests currently being served",
		},
	)
)

// Newsroom metrics track content flowing through the portal
var (
	ArticlesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newshub_articles_total",
			Help: "Number of published articles at the last count",
		},
	)

	// ArticlesCreatedTotal counts created articles by initial status
	ArticlesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_articles_created_total",
			Help: "Total number of articles created",
		},
		[]string{"status"},
	)

	// SummariesTotal counts summary drafting by how the summary was produced
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_article_summaries_total",
			Help: "Total number of article summaries drafted",
		},
		[]string{"method"}, // method: provided, ai, excerpt
	)

	SummarizationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newshub_summarization_duration_seconds",
			Help:    "Time taken by the AI summarizer",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		},
	)

	LiveUpdatesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_live_updates_created_total",
			Help: "Total number of live updates posted",
		},
		[]string{"origin"}, // origin: editor, demo
	)

	// ArticleViewsTotal counts view increments; failures are swallowed by callers
	ArticleViewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_article_views_total",
			Help: "Total number of article view increments",
		},
		[]string{"result"},
	)

	FeedImportItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_feed_import_items_total",
			Help: "Feed items seen by the importer",
		},
		[]string{"result"}, // result: imported, duplicate, failed
	)

	FeedImportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "newshub_feed_import_duration_seconds",
			Help:    "Time taken to import one feed",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)
)

// Store metrics. Connection gauges are refreshed by the readiness probe.
var (
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "Repository query latency by operation",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation"},
	)

	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "connections_in_use",
			Help:      "Pool connections in use at the last probe",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "connections_idle",
			Help:      "Idle pool connections at the last probe",
		},
	)
)

// RecordHTTPRequest observes one finished request. Empty bodies are not
// counted in the size histogram.
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())

	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
