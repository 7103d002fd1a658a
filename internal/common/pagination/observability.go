package pagination

import (
	"log/slog"
	"time"
)

// LogResponse logs a served page.
func LogResponse(logger *slog.Logger, requestID, resource string, params Params, returned int, duration time.Duration) {
	logger.Info("paginated response",
		slog.String("request_id", requestID),
		slog.String("resource", resource),
		slog.Int("page", params.Page),
		slog.Int("limit", params.Limit),
		slog.Int("returned_count", returned),
		slog.Int64("duration_ms", duration.Milliseconds()))
}

// LogError logs a failed page request with its classification.
func LogError(logger *slog.Logger, requestID, resource string, params Params, err error, errorType string) {
	logger.Error("pagination error",
		slog.String("request_id", requestID),
		slog.String("resource", resource),
		slog.Int("page", params.Page),
		slog.Int("limit", params.Limit),
		slog.Any("error", err),
		slog.String("error_type", errorType))
}
