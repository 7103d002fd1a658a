package article

import (
	"net/http"
	"strconv"

	"newshub/internal/domain/entity"
	"newshub/internal/handler/http/pathutil"
	"newshub/internal/handler/http/respond"
	artUC "newshub/internal/usecase/article"
)

type UpdateHandler struct{ Svc *artUC.Service }

// ServeHTTP 記事更新
// @Summary      Update article
// @Description  Partial update: omitted fields keep their value.
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id      path int           true "Article ID"
// @Param        article body UpdateRequest true "Fields to change"
// @Success      200 {object} DTO
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /articles/{id} [put]
func (h UpdateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	var req UpdateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}

	in := artUC.UpdateInput{
		Title:    req.Title,
		Summary:  req.Summary,
		Content:  req.Content,
		Category: req.Category,
		Author:   req.Author,
		ImageURL: req.ImageURL,
		Featured: req.Featured,
		IsLive:   req.IsLive,
		Status:   req.Status,
	}
	if req.Tags != nil {
		tags := entity.SplitTags(*req.Tags)
		in.Tags = &tags
	}

	article, err := h.Svc.Update(r.Context(), id, in)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(article))
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
