package pagination

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts paginated requests.
	// Labels: resource (articles, search, category), status, page_range
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_pagination_requests_total",
			Help: "Total number of paginated requests",
		},
		[]string{"resource", "status", "page_range"},
	)

	// ErrorsTotal counts pagination failures by type (validation, database, timeout).
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newshub_pagination_errors_total",
			Help: "Total number of pagination errors",
		},
		[]string{"type"},
	)
)

func RecordRequest(resource string, statusCode int, page int) {
	RequestsTotal.WithLabelValues(resource, strconv.Itoa(statusCode), pageRangeBucket(page)).Inc()
}

func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

// Deep pages are rare on a news front; the buckets keep label cardinality fixed.
func pageRangeBucket(page int) string {
	switch {
	case page <= 1:
		return "1"
	case page <= 5:
		return "2-5"
	case page <= 20:
		return "6-20"
	default:
		return "20+"
	}
}
