// Package article provides HTTP handlers for article-related endpoints.
package article

import (
	"time"

	"newshub/internal/domain/entity"
)

// DTO represents the JSON structure for article data transfer.
// Tags travel as one comma-separated string.
type DTO struct {
	ID          int64     `json:"id" example:"2"`
	Title       string    `json:"title" example:"Election night: results as they come in"`
	Summary     string    `json:"summary" example:"Polls have closed across the country."`
	Content     string    `json:"content" example:"<p>Counting is under way.</p>"`
	Category    string    `json:"category" example:"politics"`
	Author      string    `json:"author" example:"Politics Desk"`
	ImageURL    string    `json:"image_url" example:"https://images.example.com/election.jpg"`
	Featured    bool      `json:"featured" example:"true"`
	IsLive      bool      `json:"is_live" example:"true"`
	ViewCount   int64     `json:"view_count" example:"1520"`
	Tags        string    `json:"tags" example:"election,results"`
	Status      string    `json:"status" example:"published"`
	PublishedAt time.Time `json:"published_at" example:"2025-10-26T10:00:00Z"`
	UpdatedAt   time.Time `json:"updated_at" example:"2025-10-26T12:00:00Z"`
}

func toDTO(a *entity.Article) DTO {
	return DTO{
		ID:          a.ID,
		Title:       a.Title,
		Summary:     a.Summary,
		Content:     a.Content,
		Category:    a.Category,
		Author:      a.Author,
		ImageURL:    a.ImageURL,
		Featured:    a.Featured,
		IsLive:      a.IsLive,
		ViewCount:   a.ViewCount,
		Tags:        entity.JoinTags(a.Tags),
		Status:      string(a.Status),
		PublishedAt: a.PublishedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toDTOs(articles []*entity.Article) []DTO {
	out := make([]DTO, 0, len(articles))
	for _, a := range articles {
		out = append(out, toDTO(a))
	}
	return out
}

// CreateRequest is the body of POST /articles. Status defaults to published.
type CreateRequest struct {
	Title    string `json:"title" example:"Storm hits the coast"`
	Summary  string `json:"summary"`
	Content  string `json:"content" example:"<p>Winds reached 120km/h.</p>"`
	Category string `json:"category" example:"news"`
	Author   string `json:"author"`
	ImageURL string `json:"image_url"`
	Featured bool   `json:"featured"`
	IsLive   bool   `json:"is_live"`
	Tags     string `json:"tags" example:"weather,storm"`
	Status   string `json:"status" example:"published"`
}

// UpdateRequest is the body of PUT /articles/{id}. Omitted fields are kept.
type UpdateRequest struct {
	Title    *string `json:"title"`
	Summary  *string `json:"summary"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Author   *string `json:"author"`
	ImageURL *string `json:"image_url"`
	Featured *bool   `json:"featured"`
	IsLive   *bool   `json:"is_live"`
	Tags     *string `json:"tags"`
	Status   *string `json:"status"`
}
