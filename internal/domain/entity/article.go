// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article, LiveUpdate and Category,
// along with their validation rules and domain-specific errors.
package entity

import (
	"strings"
	"time"
)

// ArticleStatus is the publication state of an article.
// Only published articles are visible on public listings and search.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

// ParseArticleStatus converts a raw string into an ArticleStatus.
// An empty string resolves to StatusPublished.
func ParseArticleStatus(raw string) (ArticleStatus, error) {
	switch ArticleStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case "", StatusPublished:
		return StatusPublished, nil
	case StatusDraft:
		return StatusDraft, nil
	default:
		return "", &ValidationError{Field: "status", Message: "status must be draft or published"}
	}
}

// Article represents a news article entity in the system.
// IsLive marks an article that receives live updates and is polled by readers.
type Article struct {
	ID          int64
	Title       string
	Summary     string
	Content     string
	Category    string
	Author      string
	ImageURL    string
	Featured    bool
	IsLive      bool
	ViewCount   int64
	Tags        []string
	Status      ArticleStatus
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// GetID returns the article identity.
func (a *Article) GetID() int64 { return a.ID }

// IsPublished reports whether the article is externally visible.
func (a *Article) IsPublished() bool {
	return a.Status == StatusPublished
}

// Validate checks the fields required before an article can be stored.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(a.Content) == "" {
		return &ValidationError{Field: "content", Message: "content is required"}
	}
	if a.ImageURL != "" {
		if err := ValidateHTTPURL("image_url", a.ImageURL); err != nil {
			return err
		}
	}
	if a.Status != StatusDraft && a.Status != StatusPublished {
		return &ValidationError{Field: "status", Message: "status must be draft or published"}
	}
	if a.ViewCount < 0 {
		return &ValidationError{Field: "view_count", Message: "view count cannot be negative"}
	}
	return nil
}
