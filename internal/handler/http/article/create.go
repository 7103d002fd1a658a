package article

import (
	"net/http"

	"newshub/internal/domain/entity"
	"newshub/internal/handler/http/respond"
	artUC "newshub/internal/usecase/article"
)

type CreateHandler struct{ Svc *artUC.Service }

// ServeHTTP 記事作成
// @Summary      Create article
// @Description  Content HTML is sanitized. A blank summary is drafted automatically.
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        article body CreateRequest true "Article"
// @Success      201 {object} DTO
// @Failure      400 {object} map[string]string
// @Router       /articles [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}

	article, err := h.Svc.Create(r.Context(), artUC.CreateInput{
		Title:    req.Title,
		Summary:  req.Summary,
		Content:  req.Content,
		Category: req.Category,
		Author:   req.Author,
		ImageURL: req.ImageURL,
		Featured: req.Featured,
		IsLive:   req.IsLive,
		Tags:     entity.SplitTags(req.Tags),
		Status:   req.Status,
	})
	if err != nil {
		respond.FromError(w, err)
		return
	}
	w.Header().Set("Location", "/articles/"+itoa(article.ID))
	respond.JSON(w, http.StatusCreated, toDTO(article))
}
