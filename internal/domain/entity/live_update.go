package entity

import (
	"strings"
	"time"
)

// DefaultLiveUpdateHeading is used when a live update is created without a heading.
const DefaultLiveUpdateHeading = "Live Update"

// LiveUpdate is a short timestamped note attached to a live article.
// SocialLink is nil when no valid link was supplied.
type LiveUpdate struct {
	ID         int64
	ArticleID  int64
	Heading    string
	Content    string
	SocialLink *string
	Timestamp  time.Time
}

// GetID returns the live update identity.
func (u *LiveUpdate) GetID() int64 { return u.ID }

// Validate checks the fields required before a live update can be stored.
func (u *LiveUpdate) Validate() error {
	if u.ArticleID <= 0 {
		return &ValidationError{Field: "article_id", Message: "article id must be positive"}
	}
	if strings.TrimSpace(u.Content) == "" {
		return &ValidationError{Field: "content", Message: "content is required"}
	}
	return nil
}

// ResolveHeading returns the trimmed heading or the default when blank.
func ResolveHeading(heading string) string {
	if h := strings.TrimSpace(heading); h != "" {
		return h
	}
	return DefaultLiveUpdateHeading
}
