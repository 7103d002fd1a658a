package article

import (
	"net/http"

	"newshub/internal/handler/http/pathutil"
	"newshub/internal/handler/http/respond"
	artUC "newshub/internal/usecase/article"
)

type GetHandler struct{ Svc *artUC.Service }

// ServeHTTP 記事詳細取得
// @Summary      Get article
// @Tags         articles
// @Produce      json
// @Param        id path int true "Article ID"
// @Success      200 {object} DTO
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /articles/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	article, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(article))
}

type RelatedHandler struct{ Svc *artUC.Service }

// ServeHTTP 関連記事
// @Summary      Related articles
// @Description  Other published articles from the same category, newest first.
// @Tags         articles
// @Produce      json
// @Param        id    path  int true  "Article ID"
// @Param        limit query int false "Maximum results" default(3)
// @Success      200 {array}  DTO
// @Failure      404 {object} map[string]string
// @Router       /articles/{id}/related [get]
func (h RelatedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	limit, err := pathutil.QueryInt(r, "limit", 0)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	related, err := h.Svc.Related(r.Context(), id, limit)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(related))
}

type ViewHandler struct{ Svc *artUC.Service }

// ServeHTTP 閲覧数カウント
// @Summary      Count a view
// @Description  Best-effort view counter. Always answers 204.
// @Tags         articles
// @Param        id path int true "Article ID"
// @Success      204
// @Router       /articles/{id}/views [post]
func (h ViewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if id, err := pathutil.ParseID(r, "id"); err == nil {
		h.Svc.IncrementViewCount(r.Context(), id)
	}
	w.WriteHeader(http.StatusNoContent)
}
