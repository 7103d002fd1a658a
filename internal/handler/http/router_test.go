package http_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/common/pagination"
	hhttp "newshub/internal/handler/http"
	"newshub/internal/handler/http/middleware"
	"newshub/internal/handler/http/requestid"
	"newshub/internal/infra/adapter/persistence/memory"
	artUC "newshub/internal/usecase/article"
	catUC "newshub/internal/usecase/category"
	luUC "newshub/internal/usecase/liveupdate"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	store := memory.New()
	require.NoError(t, store.Seed(memory.DefaultFixture()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cors := middleware.DefaultCORSConfig()
	cors.AllowedOrigins = []string{"https://news.example.com"}

	return hhttp.NewRouter(hhttp.RouterConfig{
		Articles:       artUC.NewService(store.Articles(), nil, logger),
		Categories:     &catUC.Service{Repo: store.Categories(), Logger: logger},
		LiveUpdates:    &luUC.Service{Repo: store.LiveUpdates(), Articles: store.Articles(), Logger: logger},
		Pagination:     pagination.DefaultConfig(),
		CORS:           cors,
		CSP:            middleware.LoadCSPConfig(),
		Version:        "test",
		SiteURL:        "https://news.example.com",
		RequestTimeout: 5 * time.Second,
		Logger:         logger,
	})
}

func TestRouter_Routes(t *testing.T) {
	h := newRouter(t)

	tests := []struct {
		method string
		target string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusOK},
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/articles", http.StatusOK},
		{http.MethodGet, "/articles/2", http.StatusOK},
		{http.MethodGet, "/articles/2/live-updates", http.StatusOK},
		{http.MethodGet, "/articles/999", http.StatusNotFound},
		{http.MethodGet, "/categories", http.StatusOK},
		{http.MethodGet, "/categories/slug/politics", http.StatusOK},
		{http.MethodGet, "/live-updates", http.StatusOK},
		{http.MethodGet, "/feed.rss", http.StatusOK},
		{http.MethodPost, "/articles/3/views", http.StatusNoContent},
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodPatch, "/articles/1", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

func TestRouter_SetsCorrelationHeaders(t *testing.T) {
	h := newRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/articles/1", nil)
	req.Header.Set(requestid.RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", rr.Header().Get(requestid.RequestIDHeader))
	assert.NotEmpty(t, rr.Header().Get("X-Trace-Id"))
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/articles", nil)
	req.Header.Set("Origin", "https://news.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://news.example.com", rr.Header().Get("Access-Control-Allow-Origin"))

	// 許可されていないオリジンにはCORSヘッダーを付けない
	req = httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("Origin", "https://evil.example.org")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RecoversPanics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := hhttp.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), hhttp.Recover(logger))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "boom")
}

func TestRouter_SecurityHeaders(t *testing.T) {
	h := newRouter(t)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/articles", nil))
	assert.Equal(t, "default-src 'none'; frame-ancestors 'none'; base-uri 'none'", rr.Header().Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", rr.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
}
