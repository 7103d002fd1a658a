// Package category provides HTTP handlers for the category navigation endpoints.
package category

import (
	"net/http"

	"newshub/internal/domain/entity"
	"newshub/internal/handler/http/pathutil"
	"newshub/internal/handler/http/respond"
	catUC "newshub/internal/usecase/category"
)

type DTO struct {
	ID          int64  `json:"id" example:"1"`
	Name        string `json:"name" example:"News"`
	Slug        string `json:"slug" example:"news"`
	Description string `json:"description" example:"Breaking and general news"`
	Color       string `json:"color" example:"#DC3545"`
	Icon        string `json:"icon" example:"Newspaper"`
	SortOrder   int    `json:"sort_order" example:"1"`
	IsActive    bool   `json:"is_active" example:"true"`
}

func toDTO(c *entity.Category) DTO {
	return DTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
	}
}

type CreateRequest struct {
	Name        string `json:"name" example:"Science"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

type ReorderRequest struct {
	IDs []int64 `json:"ids" example:"3,1,2"`
}

// Register registers the category routes on mux.
func Register(mux *http.ServeMux, svc *catUC.Service) {
	mux.Handle("GET /categories", ListHandler{svc})
	mux.Handle("POST /categories", CreateHandler{svc})
	mux.Handle("PUT /categories/order", ReorderHandler{svc})
	mux.Handle("GET /categories/slug/{slug}", SlugHandler{svc})
	mux.Handle("GET /categories/{id}", GetHandler{svc})
	mux.Handle("PUT /categories/{id}", UpdateHandler{svc})
	mux.Handle("DELETE /categories/{id}", DeleteHandler{svc})
}

type ListHandler struct{ Svc *catUC.Service }

// ServeHTTP カテゴリ一覧
// @Summary      List categories
// @Description  Categories in display order. active=true hides inactive ones.
// @Tags         categories
// @Produce      json
// @Param        active query bool false "Only active categories"
// @Success      200 {array} DTO
// @Router       /categories [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	cats, err := h.Svc.List(r.Context(), activeOnly)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	out := make([]DTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, toDTO(c))
	}
	respond.JSON(w, http.StatusOK, out)
}

type GetHandler struct{ Svc *catUC.Service }

// ServeHTTP カテゴリ取得
// @Summary      Get category
// @Tags         categories
// @Produce      json
// @Param        id path int true "Category ID"
// @Success      200 {object} DTO
// @Failure      404 {object} map[string]string
// @Router       /categories/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	c, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(c))
}

type SlugHandler struct{ Svc *catUC.Service }

// ServeHTTP スラッグでカテゴリ取得
// @Summary      Get category by slug
// @Tags         categories
// @Produce      json
// @Param        slug path string true "Category slug"
// @Success      200 {object} DTO
// @Failure      404 {object} map[string]string
// @Router       /categories/slug/{slug} [get]
func (h SlugHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(c))
}

type CreateHandler struct{ Svc *catUC.Service }

// ServeHTTP カテゴリ作成
// @Summary      Create category
// @Description  A blank slug is derived from the name. Slugs are unique.
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        category body CreateRequest true "Category"
// @Success      201 {object} DTO
// @Failure      400 {object} map[string]string
// @Router       /categories [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}
	c, err := h.Svc.Create(r.Context(), catUC.CreateInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Color:       req.Color,
		Icon:        req.Icon,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(c))
}

type UpdateHandler struct{ Svc *catUC.Service }

// ServeHTTP カテゴリ更新
// @Summary      Update category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id       path int           true "Category ID"
// @Param        category body UpdateRequest true "Fields to change"
// @Success      200 {object} DTO
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /categories/{id} [put]
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
	c, err := h.Svc.Update(r.Context(), id, catUC.UpdateInput(req))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(c))
}

type DeleteHandler struct{ Svc *catUC.Service }

// ServeHTTP カテゴリ削除
// @Summary      Delete category
// @Tags         categories
// @Param        id path int true "Category ID"
// @Success      204
// @Failure      404 {object} map[string]string
// @Router       /categories/{id} [delete]
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

type ReorderHandler struct{ Svc *catUC.Service }

// ServeHTTP 並び替え
// @Summary      Reorder categories
// @Description  Assigns display positions in the order given.
// @Tags         categories
// @Accept       json
// @Param        order body ReorderRequest true "Category IDs in display order"
// @Success      204
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /categories/order [put]
func (h ReorderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}
	if err := h.Svc.Reorder(r.Context(), req.IDs); err != nil {
		respond.FromError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
