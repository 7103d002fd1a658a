// Package worker holds the live feed watcher run by cmd/worker: its
// configuration, metrics, health server and the refresh job itself.
package worker

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"newshub/internal/pkg/config"
)

// Data sources the job can read the live feed from.
const (
	SourceDB  = "db"
	SourceAPI = "api"
)

// Config controls the watcher. Zero values are never used: LoadConfigFromEnv
// starts from DefaultConfig and replaces only valid overrides.
type Config struct {
	// CronSchedule is a five-field cron expression or a descriptor such as "@every 1m".
	CronSchedule string
	Timezone     string
	// Source selects where the live feed is read: SourceDB or SourceAPI.
	Source string
	// APIBaseURL is required when Source is SourceAPI.
	APIBaseURL          string
	FeedLimit           int
	RunTimeout          time.Duration
	NotifyMaxConcurrent int
	HealthPort          int
}

// DefaultConfig refreshes every five minutes, matching the reader-side cadence.
func DefaultConfig() Config {
	return Config{
		CronSchedule:        "*/5 * * * *",
		Timezone:            "UTC",
		Source:              SourceDB,
		FeedLimit:           10,
		RunTimeout:          2 * time.Minute,
		NotifyMaxConcurrent: 10,
		HealthPort:          9091,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs []error
	add := func(field string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}
	add("cron schedule", config.ValidateCronSchedule(c.CronSchedule))
	add("timezone", config.ValidateTimezone(c.Timezone))
	add("source", config.OneOf(SourceDB, SourceAPI)(c.Source))
	if c.Source == SourceAPI && c.APIBaseURL == "" {
		errs = append(errs, errors.New("api base url: required when source is api"))
	}
	add("feed limit", config.ValidateIntRange(c.FeedLimit, 1, 100))
	add("run timeout", config.ValidatePositiveDuration(c.RunTimeout))
	add("notify max concurrent", config.ValidateIntRange(c.NotifyMaxConcurrent, 1, 50))
	add("health port", config.ValidateIntRange(c.HealthPort, 1024, 65535))
	return errors.Join(errs...)
}

// Location resolves Timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv reads the worker settings. Invalid values keep their
// default, are logged and are counted in metrics; loading never fails.
//
//	CRON_SCHEDULE, WORKER_TIMEZONE, WORKER_SOURCE (db|api), API_BASE_URL,
//	WORKER_FEED_LIMIT, WORKER_RUN_TIMEOUT, NOTIFY_MAX_CONCURRENT, WORKER_HEALTH_PORT
func LoadConfigFromEnv(logger *slog.Logger, metrics *config.ConfigMetrics) Config {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := DefaultConfig()
	fallback := false
	track := func(field, warning string, applied bool) {
		if !applied {
			return
		}
		fallback = true
		if metrics != nil {
			metrics.RecordFallback(field)
		}
		logger.Warn("configuration fallback applied",
			slog.String("field", field),
			slog.String("warning", warning))
	}

	s := config.LoadString("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = s.Value
	track("cron_schedule", s.Warning, s.FallbackApplied)

	s = config.LoadString("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = s.Value
	track("timezone", s.Warning, s.FallbackApplied)

	s = config.LoadString("WORKER_SOURCE", cfg.Source, config.OneOf(SourceDB, SourceAPI))
	cfg.Source = s.Value
	track("source", s.Warning, s.FallbackApplied)

	cfg.APIBaseURL = config.LoadString("API_BASE_URL", "", nil).Value

	n := config.LoadInt("WORKER_FEED_LIMIT", cfg.FeedLimit, func(v int) error { return config.ValidateIntRange(v, 1, 100) })
	cfg.FeedLimit = n.Value
	track("feed_limit", n.Warning, n.FallbackApplied)

	d := config.LoadDuration("WORKER_RUN_TIMEOUT", cfg.RunTimeout, func(v time.Duration) error {
		return config.ValidateDuration(v, time.Second, 30*time.Minute)
	})
	cfg.RunTimeout = d.Value
	track("run_timeout", d.Warning, d.FallbackApplied)

	n = config.LoadInt("NOTIFY_MAX_CONCURRENT", cfg.NotifyMaxConcurrent, func(v int) error { return config.ValidateIntRange(v, 1, 50) })
	cfg.NotifyMaxConcurrent = n.Value
	track("notify_max_concurrent", n.Warning, n.FallbackApplied)

	n = config.LoadInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error { return config.ValidateIntRange(v, 1024, 65535) })
	cfg.HealthPort = n.Value
	track("health_port", n.Warning, n.FallbackApplied)

	if metrics != nil {
		metrics.SetFallbackActive(fallback)
		metrics.RecordLoadTimestamp()
	}
	return cfg
}
