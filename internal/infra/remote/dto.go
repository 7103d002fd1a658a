package remote

import (
	"time"

	"newshub/internal/domain/entity"
)

// articleDTO mirrors the article JSON of the HTTP API. Tags travel comma separated.
type articleDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	ImageURL    string    `json:"image_url"`
	Featured    bool      `json:"featured"`
	IsLive      bool      `json:"is_live"`
	ViewCount   int64     `json:"view_count"`
	Tags        string    `json:"tags"`
	Status      string    `json:"status"`
	PublishedAt time.Time `json:"published_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (d articleDTO) entity() *entity.Article {
	status, err := entity.ParseArticleStatus(d.Status)
	if err != nil {
		status = entity.StatusPublished
	}
	return &entity.Article{
		ID:          d.ID,
		Title:       d.Title,
		Summary:     d.Summary,
		Content:     d.Content,
		Category:    d.Category,
		Author:      d.Author,
		ImageURL:    d.ImageURL,
		Featured:    d.Featured,
		IsLive:      d.IsLive,
		ViewCount:   d.ViewCount,
		Tags:        entity.SplitTags(d.Tags),
		Status:      status,
		PublishedAt: d.PublishedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type liveUpdateDTO struct {
	ID         int64     `json:"id"`
	ArticleID  int64     `json:"article_id"`
	Heading    string    `json:"heading"`
	Content    string    `json:"content"`
	SocialLink *string   `json:"social_link"`
	Timestamp  time.Time `json:"timestamp"`
}

func (d liveUpdateDTO) entity() *entity.LiveUpdate {
	return &entity.LiveUpdate{
		ID:         d.ID,
		ArticleID:  d.ArticleID,
		Heading:    d.Heading,
		Content:    d.Content,
		SocialLink: d.SocialLink,
		Timestamp:  d.Timestamp,
	}
}
