// Package liveupdate provides HTTP handlers for live update timelines.
package liveupdate

import (
	"net/http"
	"time"

	"newshub/internal/domain/entity"
	"newshub/internal/handler/http/pathutil"
	"newshub/internal/handler/http/respond"
	luUC "newshub/internal/usecase/liveupdate"
)

// DTO is the wire form of a live update. SocialLink is null when absent.
type DTO struct {
	ID         int64     `json:"id" example:"7"`
	ArticleID  int64     `json:"article_id" example:"2"`
	Heading    string    `json:"heading" example:"First result"`
	Content    string    `json:"content" example:"The first constituency has declared."`
	SocialLink *string   `json:"social_link" example:"https://x.com/newshub/status/1"`
	Timestamp  time.Time `json:"timestamp" example:"2025-03-12T22:05:00Z"`
}

func toDTO(u *entity.LiveUpdate) DTO {
	return DTO{
		ID:         u.ID,
		ArticleID:  u.ArticleID,
		Heading:    u.Heading,
		Content:    u.Content,
		SocialLink: u.SocialLink,
		Timestamp:  u.Timestamp,
	}
}

func toDTOs(updates []*entity.LiveUpdate) []DTO {
	out := make([]DTO, 0, len(updates))
	for _, u := range updates {
		out = append(out, toDTO(u))
	}
	return out
}

// CreateRequest is the body of POST /articles/{id}/live-updates.
// A blank heading becomes "Live Update"; a link outside the social allow-list is dropped.
type CreateRequest struct {
	Heading    string `json:"heading" example:"Goal"`
	Content    string `json:"content" example:"1-0 to the home side."`
	SocialLink string `json:"social_link" example:"https://www.youtube.com/watch?v=goal"`
}

type UpdateRequest struct {
	Heading    *string `json:"heading"`
	Content    *string `json:"content"`
	SocialLink *string `json:"social_link"`
}

// Register registers the live update routes on mux.
func Register(mux *http.ServeMux, svc *luUC.Service) {
	mux.Handle("GET /live-updates", ListHandler{Svc: svc})
	mux.Handle("GET /articles/{id}/live-updates", ListHandler{Svc: svc, PerArticle: true})
	mux.Handle("POST /articles/{id}/live-updates", CreateHandler{svc})
	mux.Handle("POST /articles/{id}/live-updates/demo", DemoHandler{svc})
	mux.Handle("GET /live-updates/{id}", GetHandler{svc})
	mux.Handle("PUT /live-updates/{id}", UpdateHandler{svc})
	mux.Handle("DELETE /live-updates/{id}", DeleteHandler{svc})
}

// ListHandler serves both the per-article timeline and the global feed.
type ListHandler struct {
	Svc        *luUC.Service
	PerArticle bool
}

// ServeHTTP ライブ更新一覧
// @Summary      List live updates
// @Description  Newest first. Per article under /articles/{id}/live-updates, across all articles under /live-updates.
// @Tags         live-updates
// @Produce      json
// @Param        id    path  int false "Article ID"
// @Param        limit query int false "Maximum results" default(10) maximum(100)
// @Success      200 {array} DTO
// @Failure      400 {object} map[string]string
// @Router       /articles/{id}/live-updates [get]
// @Router       /live-updates [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var articleID *int64
	if h.PerArticle {
		id, err := pathutil.ParseID(r, "id")
		if err != nil {
			respond.FromError(w, err)
			return
		}
		articleID = &id
	}
	limit, err := pathutil.QueryInt(r, "limit", 0)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	updates, err := h.Svc.List(r.Context(), articleID, limit)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTOs(updates))
}

type GetHandler struct{ Svc *luUC.Service }

// ServeHTTP ライブ更新取得
// @Summary      Get live update
// @Tags         live-updates
// @Produce      json
// @Param        id path int true "Live update ID"
// @Success      200 {object} DTO
// @Failure      404 {object} map[string]string
// @Router       /live-updates/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	u, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(u))
}

type CreateHandler struct{ Svc *luUC.Service }

// ServeHTTP ライブ更新投稿
// @Summary      Post live update
// @Tags         live-updates
// @Accept       json
// @Produce      json
// @Param        id     path int           true "Article ID"
// @Param        update body CreateRequest true "Live update"
// @Success      201 {object} DTO
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /articles/{id}/live-updates [post]
func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	articleID, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	var req CreateRequest
	if err := respond.DecodeJSON(r, &req); err != nil {
		respond.FromError(w, err)
		return
	}
	u, err := h.Svc.Create(r.Context(), luUC.CreateInput{
		ArticleID:  articleID,
		Heading:    req.Heading,
		Content:    req.Content,
		SocialLink: req.SocialLink,
	})
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(u))
}

type DemoHandler struct{ Svc *luUC.Service }

// ServeHTTP デモ更新生成
// @Summary      Generate a demo live update
// @Description  Posts the next canned "Breaking Update" from the demo rotation.
// @Tags         live-updates
// @Produce      json
// @Param        id path int true "Article ID"
// @Success      201 {object} DTO
// @Failure      404 {object} map[string]string
// @Router       /articles/{id}/live-updates/demo [post]
func (h DemoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	articleID, err := pathutil.ParseID(r, "id")
	if err != nil {
		respond.FromError(w, err)
		return
	}
	u, err := h.Svc.GenerateDemo(r.Context(), articleID)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, toDTO(u))
}

type UpdateHandler struct{ Svc *luUC.Service }

// ServeHTTP ライブ更新編集
// @Summary      Edit live update
// @Description  The timestamp never changes. An empty social_link clears the link.
// @Tags         live-updates
// @Accept       json
// @Produce      json
// @Param        id     path int           true "Live update ID"
// @Param        update body UpdateRequest true "Fields to change"
// @Success      200 {object} DTO
// @Failure      400 {object} map[string]string
// @Failure      404 {object} map[string]string
// @Router       /live-updates/{id} [put]
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
	u, err := h.Svc.Update(r.Context(), id, luUC.UpdateInput(req))
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, toDTO(u))
}

type DeleteHandler struct{ Svc *luUC.Service }

// ServeHTTP ライブ更新削除
// @Summary      Delete live update
// @Tags         live-updates
// @Param        id path int true "Live update ID"
// @Success      204
// @Failure      404 {object} map[string]string
// @Router       /live-updates/{id} [delete]
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
