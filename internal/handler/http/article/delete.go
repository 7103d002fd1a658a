package article

import (
	"net/http"

	"newshub/internal/handler/http/pathutil"
	"newshub/internal/handler/http/respond"
	artUC "newshub/internal/usecase/article"
)

type DeleteHandler struct{ Svc *artUC.Service }

// ServeHTTP 記事削除
// @Summary      Delete article
// @Description  Live updates attached to the article are kept.
// @Tags         articles
// @Param        id path int true "Article ID"
// @Success      204
// @Failure      404 {object} map[string]string
// @Router       /articles/{id} [delete]
func (h DeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		respond.FromError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
