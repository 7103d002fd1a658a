package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthServer exposes /health (liveness), /ready (readiness) and /metrics.
type HealthServer struct {
	addr     string
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	ready    atomic.Bool
	// lastRun is the UnixNano of the last successful run, zero before the first.
	lastRun atomic.Int64
	extra   map[string]http.Handler
}

type healthResponse struct {
	Status  string     `json:"status"`
	LastRun *time.Time `json:"last_run,omitempty"`
}

// NewHealthServer starts not ready. A nil gatherer serves the default registry.
func NewHealthServer(addr string, gatherer prometheus.Gatherer, logger *slog.Logger) *HealthServer {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthServer{addr: addr, gatherer: gatherer, logger: logger}
}

func (h *HealthServer) SetReady(ready bool) {
	h.ready.Store(ready)
	h.logger.Info("worker readiness changed", slog.Bool("ready", ready))
}

// MarkRun records a successful run for the health payload.
func (h *HealthServer) MarkRun(at time.Time) { h.lastRun.Store(at.UnixNano()) }

// Handle adds a route served next to the probes. Call it before Start.
func (h *HealthServer) Handle(pattern string, handler http.Handler) {
	if h.extra == nil {
		h.extra = make(map[string]http.Handler)
	}
	h.extra[pattern] = handler
}

func (h *HealthServer) Handler() http.Handler {
	mux := http.NewServeMux()
	for pattern, handler := range h.extra {
		mux.Handle(pattern, handler)
	}
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		h.write(w, http.StatusOK, "ok")
	})
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, _ *http.Request) {
		if h.ready.Load() {
			h.write(w, http.StatusOK, "ok")
			return
		}
		h.write(w, http.StatusServiceUnavailable, "not ready")
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
	return mux
}

func (h *HealthServer) write(w http.ResponseWriter, status int, msg string) {
	resp := healthResponse{Status: msg}
	if ns := h.lastRun.Load(); ns > 0 {
		t := time.Unix(0, ns).UTC()
		resp.LastRun = &t
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode health response", slog.Any("error", err))
	}
}

// Start serves until ctx is cancelled, then shuts down within five seconds.
func (h *HealthServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              h.addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info("health server starting", slog.String("addr", h.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		h.logger.Info("health server stopped")
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
