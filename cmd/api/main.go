package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"newshub/internal/common/pagination"
	hhttp "newshub/internal/handler/http"
	"newshub/internal/handler/http/middleware"
	"newshub/internal/infra/adapter/persistence"
	"newshub/internal/infra/summarizer"
	"newshub/internal/observability/logging"
	"newshub/internal/observability/tracing"
	"newshub/pkg/config"
	"newshub/pkg/ratelimit"

	artUC "newshub/internal/usecase/article"
	catUC "newshub/internal/usecase/category"
	luUC "newshub/internal/usecase/liveupdate"

	_ "newshub/docs" // swagger docs
)

// @title           Newshub API
// @version         1.0
// @description     ニュースポータルの REST API
// @description     記事、カテゴリ、ライブ更新、RSS フィードを提供します。

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	version := config.GetEnvString("VERSION", "dev")

	shutdownTracing, err := tracing.Setup(ctx, tracing.LoadConfig("newshub-api", version))
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("failed to flush traces", slog.Any("error", err))
		}
	}()

	stores, err := persistence.Open(ctx, config.GetEnvBool("DB_AUTO_MIGRATE", true), logger)
	if err != nil {
		logger.Error("failed to open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := stores.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	handler, err := setupHandler(ctx, logger, stores, version)
	if err != nil {
		logger.Error("failed to set up server", slog.Any("error", err))
		os.Exit(1)
	}

	runServer(ctx, logger, handler, version)
}

// setupHandler wires the usecases to the router.
func setupHandler(ctx context.Context, logger *slog.Logger, stores *persistence.Stores, version string) (http.Handler, error) {
	sum, err := summarizer.FromEnv(nil, logger)
	if err != nil {
		return nil, err
	}

	artSvc := artUC.NewService(stores.Articles, sum, logger)
	catSvc := &catUC.Service{Repo: stores.Categories, Logger: logger}
	luSvc := &luUC.Service{Repo: stores.LiveUpdates, Articles: stores.Articles, Logger: logger}

	corsCfg, err := middleware.LoadCORSConfig()
	if err != nil {
		return nil, err
	}
	corsCfg.Logger = logger
	logger.Info("CORS configured",
		slog.Int("allowed_origins_count", len(corsCfg.AllowedOrigins)),
		slog.Any("allowed_origins", corsCfg.AllowedOrigins))

	rlCfg := middleware.LoadRateLimitConfig()
	var limiter *ratelimit.Limiter
	if rlCfg.Enabled {
		limiter, err = ratelimit.New(rlCfg.Limiter, ratelimit.NewMetrics(nil))
		if err != nil {
			return nil, err
		}
		go limiter.RunCleanup(ctx, time.Minute)
		logger.Info("rate limiting enabled",
			slog.Float64("requests_per_second", rlCfg.Limiter.RequestsPerSecond),
			slog.Int("burst", rlCfg.Limiter.Burst),
			slog.Bool("trust_proxy", rlCfg.TrustProxy))
	}

	return hhttp.NewRouter(hhttp.RouterConfig{
		Articles:       artSvc,
		Categories:     catSvc,
		LiveUpdates:    luSvc,
		Pagination:     pagination.LoadFromEnv(),
		CORS:           corsCfg,
		CSP:            middleware.LoadCSPConfig(),
		RateLimiter:    limiter,
		RateLimit:      rlCfg,
		DB:             stores.DB,
		Version:        version,
		SiteURL:        config.GetEnvString("PUBLIC_URL", "http://localhost:8080"),
		BodyLimit:      int64(config.GetEnvInt("HTTP_BODY_LIMIT", 1<<20)),
		RequestTimeout: config.GetEnvDuration("HTTP_REQUEST_TIMEOUT", 15*time.Second),
		Logger:         logger,
	}), nil
}

// runServer serves until ctx is cancelled, then drains for up to ten seconds.
func runServer(ctx context.Context, logger *slog.Logger, handler http.Handler, version string) {
	addr := config.GetEnvString("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
		return
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
