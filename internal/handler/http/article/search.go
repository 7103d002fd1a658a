package article

import (
	"log/slog"
	"net/http"
	"time"

	"newshub/internal/common/pagination"
	"newshub/internal/handler/http/requestid"
	"newshub/internal/handler/http/respond"
	"newshub/internal/observability/logging"
	artUC "newshub/internal/usecase/article"
)

type SearchHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP 記事検索
// @Summary      Search articles
// @Description  Contains-match over title, summary, content and tags. Published only, newest first.
// @Tags         articles
// @Produce      json
// @Param        q     query string true  "Keyword"
// @Param        page  query int    false "Page number (1-based)" default(1)
// @Param        limit query int    false "Items per page" default(12) maximum(50)
// @Success      200 {object} pagination.Response[DTO]
// @Failure      400 {object} map[string]string
// @Router       /articles/search [get]
func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.FromError(w, err)
		return
	}

	result, err := h.Svc.Search(ctx, r.URL.Query().Get("q"), params)
	if err != nil {
		if respond.StatusFor(err) >= http.StatusInternalServerError {
			pagination.LogError(logger, reqID, "articles_search", params, err, "database")
		}
		respond.FromError(w, err)
		return
	}

	dtos := toDTOs(result.Data)
	pagination.RecordRequest("articles_search", http.StatusOK, result.Pagination.Page)
	pagination.LogResponse(logger, reqID, "articles_search", params, len(dtos), time.Since(start))
	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}
