package metrics

import (
	"time"
)

// Summary drafting methods.
const (
	SummaryProvided = "provided"
	SummaryAI       = "ai"
	SummaryExcerpt  = "excerpt"
)

// RecordArticleCreated counts a created article under its initial status.
func RecordArticleCreated(status string) {
	ArticlesCreatedTotal.WithLabelValues(status).Inc()
}

// RecordSummary records how an article summary was produced.
func RecordSummary(method string) {
	SummariesTotal.WithLabelValues(method).Inc()
}

func RecordSummarizationDuration(duration time.Duration) {
	SummarizationDuration.Observe(duration.Seconds())
}

// RecordLiveUpdateCreated counts a live update. Origin is "editor" or "demo".
func RecordLiveUpdateCreated(origin string) {
	LiveUpdatesCreatedTotal.WithLabelValues(origin).Inc()
}

// RecordArticleView records the outcome of a best-effort view increment.
func RecordArticleView(success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	ArticleViewsTotal.WithLabelValues(result).Inc()
}

// RecordFeedImport records one importer run and the per-item breakdown.
func RecordFeedImport(duration time.Duration, imported, duplicates, failed int) {
	FeedImportDuration.Observe(duration.Seconds())
	FeedImportItemsTotal.WithLabelValues("imported").Add(float64(imported))
	FeedImportItemsTotal.WithLabelValues("duplicate").Add(float64(duplicates))
	FeedImportItemsTotal.WithLabelValues("failed").Add(float64(failed))
}

// UpdateArticlesTotal sets the published article gauge.
func UpdateArticlesTotal(count int64) {
	ArticlesTotal.Set(float64(count))
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "list_articles", "insert_live_update").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
