package article

import (
	"log/slog"
	"net/http"
	"time"

	"newshub/internal/common/pagination"
	"newshub/internal/domain/entity"
	"newshub/internal/handler/http/pathutil"
	"newshub/internal/handler/http/requestid"
	"newshub/internal/handler/http/respond"
	"newshub/internal/observability/logging"
	"newshub/internal/repository"
	artUC "newshub/internal/usecase/article"
)

type ListHandler struct {
	Svc           *artUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

// ServeHTTP 記事一覧取得
// @Summary      List articles
// @Description  Published articles, live first, then by the requested sort. offset overrides page.
// @Tags         articles
// @Produce      json
// @Param        category query string false "Category (case-insensitive)"
// @Param        sort     query string false "newest, oldest or popular" default(newest)
// @Param        page     query int    false "Page number (1-based)" default(1) minimum(1)
// @Param        limit    query int    false "Items per page" default(12) minimum(1) maximum(50)
// @Param        offset   query int    false "Row offset"
// @Success      200 {object} pagination.Response[DTO]
// @Failure      400 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /articles [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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
	sort, ok := repository.ParseArticleSort(r.URL.Query().Get("sort"))
	if !ok {
		pagination.RecordError("validation")
		respond.FromError(w, &entity.ValidationError{Field: "sort", Message: "sort must be newest, oldest or popular"})
		return
	}
	offset, err := pathutil.QueryInt(r, "offset", 0)
	if err != nil {
		pagination.RecordError("validation")
		respond.FromError(w, err)
		return
	}

	result, err := h.Svc.List(ctx, artUC.ListQuery{
		Category: r.URL.Query().Get("category"),
		Sort:     sort,
		Params:   params,
		Offset:   offset,
	})
	if err != nil {
		pagination.LogError(logger, reqID, "articles", params, err, "database")
		pagination.RecordError("database")
		respond.FromError(w, err)
		return
	}

	dtos := toDTOs(result.Data)
	pagination.RecordRequest("articles", http.StatusOK, result.Pagination.Page)
	pagination.LogResponse(logger, reqID, "articles", params, len(dtos), time.Since(start))
	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}
