// Package observability groups the logging, metrics and tracing setup shared
// by the API server, the worker and the CLI.
//
// Subpackages:
//   - logging: slog construction and request-scoped loggers
//   - metrics: Prometheus business and HTTP metrics
//   - tracing: OpenTelemetry provider and HTTP middleware
//
// Example usage:
//
//	import (
//	    "newshub/internal/observability/logging"
//	    "newshub/internal/observability/metrics"
//	)
//
//	func main() {
//	    logger := logging.NewLogger()
//	    logger.Info("application started")
//
//	    metrics.RecordLiveUpdateCreated("editor")
//	}
package observability
