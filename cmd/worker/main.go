package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"newshub/internal/datasource"
	"newshub/internal/handler/http/respond"
	"newshub/internal/infra/adapter/persistence"
	"newshub/internal/infra/remote"
	workerPkg "newshub/internal/infra/worker"
	"newshub/internal/observability/logging"
	"newshub/internal/observability/tracing"
	"newshub/internal/pkg/config"
	artUC "newshub/internal/usecase/article"
	luUC "newshub/internal/usecase/liveupdate"
	"newshub/internal/usecase/notify"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, tracing.LoadConfig("newshub-worker", os.Getenv("VERSION")))
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	metrics := workerPkg.NewMetrics(nil)
	cfg := workerPkg.LoadConfigFromEnv(logger, metrics.ConfigMetrics)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid worker configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone),
		slog.String("source", cfg.Source),
		slog.Int("feed_limit", cfg.FeedLimit),
		slog.Int("notify_max_concurrent", cfg.NotifyMaxConcurrent),
		slog.Duration("run_timeout", cfg.RunTimeout),
		slog.Int("health_port", cfg.HealthPort))

	source, closeSource, err := openSource(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open data source", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeSource()

	channels := buildChannels(logger)
	notifySvc := notify.NewService(channels, cfg.NotifyMaxConcurrent, logger)
	logger.Info("notification service initialized", slog.Int("channels", len(channels)))

	health := workerPkg.NewHealthServer(fmt.Sprintf(":%d", cfg.HealthPort), nil, logger)
	health.Handle("GET /health/channels", channelHealthHandler(notifySvc))
	go func() {
		if err := health.Start(ctx); err != nil {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	job := &workerPkg.LiveFeedJob{
		Source:   source,
		Notifier: notifySvc,
		Metrics:  metrics,
		Health:   health,
		Logger:   logger,
		Limit:    cfg.FeedLimit,
		Timeout:  cfg.RunTimeout,
	}

	// 起動時に一度実行してスナップショットを作る
	if _, err := job.Run(ctx); err != nil {
		logger.Warn("initial live feed run failed", slog.Any("error", respond.SanitizeError(err)))
	}

	runCron(ctx, logger, cfg, job)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := notifySvc.Shutdown(shutdownCtx); err != nil {
		logger.Warn("notification shutdown timed out", slog.Any("error", err))
	}
	logger.Info("worker stopped")
}

// openSource builds the DataSource named by cfg.Source.
func openSource(ctx context.Context, cfg workerPkg.Config, logger *slog.Logger) (datasource.DataSource, func(), error) {
	if cfg.Source == workerPkg.SourceAPI {
		client, err := remote.New(remote.DefaultConfig(cfg.APIBaseURL), logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("watching remote API", slog.String("base_url", cfg.APIBaseURL))
		return client, func() {}, nil
	}

	stores, err := persistence.Open(ctx, false, logger)
	if err != nil {
		return nil, nil, err
	}
	articles := artUC.NewService(stores.Articles, nil, logger)
	updates := &luUC.Service{Repo: stores.LiveUpdates, Articles: stores.Articles, Logger: logger}
	closeFn := func() {
		if err := stores.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}
	return datasource.NewLocal(articles, updates), closeFn, nil
}

// runCron schedules job and blocks until ctx is cancelled. A run that is
// still going when the next tick fires is skipped.
func runCron(ctx context.Context, logger *slog.Logger, cfg workerPkg.Config, job *workerPkg.LiveFeedJob) {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))
	c := cron.New(
		cron.WithLocation(cfg.Location()),
		cron.WithParser(config.CronParser),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)

	_, err := c.AddFunc(cfg.CronSchedule, func() {
		res, err := job.Run(ctx)
		if err != nil {
			logger.Error("live feed run failed", slog.Any("error", respond.SanitizeError(err)))
			return
		}
		logger.Info("live feed run completed",
			slog.Int("fetched", res.Fetched),
			slog.Bool("new_head", res.NewHead != nil),
			slog.Bool("notified", res.Notified))
	})
	if err != nil {
		logger.Error("failed to add cron job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()
	job.Health.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", cfg.CronSchedule),
		slog.String("timezone", cfg.Timezone))

	<-ctx.Done()
	logger.Info("stopping scheduler")
	<-c.Stop().Done()
}
