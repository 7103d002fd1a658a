package article

import (
	"log/slog"
	"net/http"

	"newshub/internal/common/pagination"
	artUC "newshub/internal/usecase/article"
)

// Register registers all article routes on mux.
func Register(mux *http.ServeMux, svc *artUC.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	mux.Handle("GET /articles", ListHandler{Svc: svc, PaginationCfg: paginationCfg, Logger: logger})
	mux.Handle("GET /articles/search", SearchHandler{Svc: svc, PaginationCfg: paginationCfg, Logger: logger})
	mux.Handle("GET /articles/featured", FeaturedHandler{svc})
	mux.Handle("GET /articles/popular", PopularHandler{svc})
	mux.Handle("GET /articles/live", LiveHandler{svc})
	mux.Handle("GET /articles/recent", RecentHandler{svc})
	mux.Handle("GET /articles/{id}", GetHandler{svc})
	mux.Handle("GET /articles/{id}/related", RelatedHandler{svc})
	mux.Handle("POST /articles/{id}/views", ViewHandler{svc})

	mux.Handle("POST /articles", CreateHandler{svc})
	mux.Handle("PUT /articles/{id}", UpdateHandler{svc})
	mux.Handle("DELETE /articles/{id}", DeleteHandler{svc})
}
