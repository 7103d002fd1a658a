package http

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"newshub/internal/common/pagination"
	"newshub/internal/handler/http/article"
	"newshub/internal/handler/http/category"
	"newshub/internal/handler/http/feed"
	"newshub/internal/handler/http/liveupdate"
	"newshub/internal/handler/http/middleware"
	"newshub/internal/handler/http/pathutil"
	"newshub/internal/handler/http/requestid"
	"newshub/internal/observability/tracing"
	artUC "newshub/internal/usecase/article"
	catUC "newshub/internal/usecase/category"
	luUC "newshub/internal/usecase/liveupdate"
	"newshub/pkg/ratelimit"
)

const defaultBodyLimit = 1 << 20

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Articles    *artUC.Service
	Categories  *catUC.Service
	LiveUpdates *luUC.Service

	Pagination pagination.Config
	CORS       middleware.CORSConfig
	CSP        middleware.CSPConfig

	// RateLimiter is nil when rate limiting is disabled.
	RateLimiter *ratelimit.Limiter
	RateLimit   middleware.RateLimitConfig

	// DB backs /health and /ready. Nil means the in-memory store.
	DB      *sql.DB
	Version string
	SiteURL string

	BodyLimit      int64
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter registers every route and wraps the mux in the middleware chain:
// CORS, security headers, request id, tracing, logging, recovery, rate limit,
// body limit, timeout, metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = defaultBodyLimit
	}

	mux := http.NewServeMux()

	mux.Handle("GET /health", &HealthHandler{DB: cfg.DB, Version: cfg.Version})
	mux.Handle("GET /ready", &ReadyHandler{DB: cfg.DB})
	mux.Handle("GET /live", LiveHandler{})
	mux.Handle("GET /metrics", MetricsHandler())
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	article.Register(mux, cfg.Articles, cfg.Pagination, logger)
	category.Register(mux, cfg.Categories)
	liveupdate.Register(mux, cfg.LiveUpdates)
	mux.Handle("GET /feed.rss", feed.Handler{Svc: cfg.Articles, SiteURL: cfg.SiteURL})

	mws := []Middleware{
		middleware.CORS(cfg.CORS),
		middleware.SecurityHeaders(cfg.CSP),
		requestid.Middleware,
		tracing.Middleware(pathutil.NormalizePath),
		Logging(logger),
		Recover(logger),
	}
	if cfg.RateLimiter != nil {
		mws = append(mws, middleware.RateLimit(cfg.RateLimiter, cfg.RateLimit, logger))
	}
	mws = append(mws, LimitRequestBody(cfg.BodyLimit))
	if cfg.RequestTimeout > 0 {
		mws = append(mws, RequestTimeout(cfg.RequestTimeout))
	}
	mws = append(mws, Metrics)
	return Chain(mux, mws...)
}
