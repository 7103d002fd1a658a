// Package metrics provides the Prometheus metrics registry and recording helpers.
//
// It covers:
//   - HTTP request metrics (duration, count, size)
//   - newsroom metrics (articles created, summaries drafted, live updates posted, views)
//   - feed import and database metrics
//
// All metrics are registered with the Prometheus default registry through
// promauto and exposed via the /metrics endpoint.
//
//	start := time.Now()
//	imported, dup, failed := importer.Run(ctx)
//	metrics.RecordFeedImport(time.Since(start), imported, dup, failed)
package metrics
