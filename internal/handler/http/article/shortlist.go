package article

import (
	"net/http"

	"newshub/internal/handler/http/pathutil"
	"newshub/internal/handler/http/respond"
	artUC "newshub/internal/usecase/article"
)

type FeaturedHandler struct{ Svc *artUC.Service }

// ServeHTTP 注目記事
// @Summary      Featured article
// @Description  The newest live article, or the newest article when none is live.
// @Tags         articles
// @Produce      json
// @Success      200 {object} DTO
// @Failure      404 {object} map[string]string
// @Router       /articles/featured [get]
func (h FeaturedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	article, err := h.Svc.Featured(r.Context())
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(article))
}

type LiveHandler struct{ Svc *artUC.Service }

// ServeHTTP ライブ記事一覧
// @Summary      Live articles
// @Tags         articles
// @Produce      json
// @Success      200 {array} DTO
// @Router       /articles/live [get]
func (h LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	articles, err := h.Svc.Live(r.Context())
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(articles))
}

type PopularHandler struct{ Svc *artUC.Service }

// ServeHTTP 人気記事
// @Summary      Most viewed articles
// @Tags         articles
// @Produce      json
// @Param        limit query int false "Maximum results" default(5) maximum(50)
// @Success      200 {array} DTO
// @Failure      400 {object} map[string]string
// @Router       /articles/popular [get]
func (h PopularHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, err := pathutil.QueryInt(r, "limit", 0)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	articles, err := h.Svc.Popular(r.Context(), limit)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(articles))
}

type RecentHandler struct{ Svc *artUC.Service }

// ServeHTTP 最新記事
// @Summary      Most recent articles
// @Tags         articles
// @Produce      json
// @Param        limit query int false "Maximum results" default(10) maximum(50)
// @Success      200 {array} DTO
// @Failure      400 {object} map[string]string
// @Router       /articles/recent [get]
func (h RecentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, err := pathutil.QueryInt(r, "limit", 0)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	articles, err := h.Svc.Recent(r.Context(), limit)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(articles))
}
