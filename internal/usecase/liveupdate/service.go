package liveupdate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/metrics"
	"newshub/internal/repository"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100

	// DemoHeading is the heading of every generated demo update.
	DemoHeading = "Breaking Update"
)

// Origins reported to the live update metric.
const (
	OriginEditor = "editor"
	OriginDemo   = "demo"
)

var demoTexts = []string{
	"Breaking: New developments in ongoing story...",
	"Updated: Officials confirm latest information...",
	"Live: Press conference scheduled for 3 PM...",
	"Alert: Situation continues to develop...",
	"Update: Additional details emerge...",
}

// CreateInput carries a new live update. SocialLink may be blank.
type CreateInput struct {
	ArticleID  int64
	Heading    string
	Content    string
	SocialLink string
}

// UpdateInput carries a partial update. Fields with nil values will not be updated.
// A non-nil empty SocialLink clears the link.
type UpdateInput struct {
	Heading    *string
	Content    *string
	SocialLink *string
}

type Service struct {
	Repo     repository.LiveUpdateRepository
	Articles repository.ArticleRepository
	Logger   *slog.Logger
	Now      func() time.Time

	demoSeq atomic.Uint64
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

// ClampLimit applies the default and the upper bound to a requested page size.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

// List returns live updates newest first. A nil articleID selects the global feed.
func (s *Service) List(ctx context.Context, articleID *int64, limit int) ([]*entity.LiveUpdate, error) {
	if articleID != nil && *articleID <= 0 {
		return nil, fmt.Errorf("invalid article ID: %w", entity.ErrInvalidInput)
	}
	updates, err := s.Repo.List(ctx, repository.LiveUpdateFilter{
		ArticleID: articleID,
		Limit:     ClampLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("list live updates: %w", err)
	}
	return updates, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.LiveUpdate, error) {
	if id <= 0 {
		return nil, ErrInvalidLiveUpdateID
	}
	u, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get live update: %w", err)
	}
	if u == nil {
		return nil, ErrLiveUpdateNotFound
	}
	return u, nil
}

// Create attaches a live update to an existing article. The timestamp is
// assigned here and never changes afterwards.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.LiveUpdate, error) {
	return s.create(ctx, in, OriginEditor)
}

func (s *Service) create(ctx context.Context, in CreateInput, origin string) (*entity.LiveUpdate, error) {
	if in.ArticleID == 0 {
		return nil, &entity.PreconditionError{Op: "create live update", Reason: "save the article first"}
	}
	if in.ArticleID < 0 {
		return nil, &entity.ValidationError{Field: "article_id", Message: "article id must be positive"}
	}
	art, err := s.Articles.Get(ctx, in.ArticleID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if art == nil {
		return nil, ErrArticleNotFound
	}

	u := &entity.LiveUpdate{
		ArticleID:  in.ArticleID,
		Heading:    entity.ResolveHeading(in.Heading),
		Content:    strings.TrimSpace(in.Content),
		SocialLink: entity.NormalizeSocialLink(in.SocialLink),
		Timestamp:  s.now(),
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if in.SocialLink != "" && u.SocialLink == nil {
		s.logger().Debug("social link dropped",
			slog.Int64("article_id", in.ArticleID),
			slog.String("link", in.SocialLink))
	}

	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create live update: %w", err)
	}
	metrics.RecordLiveUpdateCreated(origin)
	s.logger().Info("live update created",
		slog.Int64("live_update_id", u.ID),
		slog.Int64("article_id", u.ArticleID),
		slog.String("origin", origin))
	return u, nil
}

// Update changes heading, content or link. The timestamp and article are kept.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*entity.LiveUpdate, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Heading != nil {
		u.Heading = entity.ResolveHeading(*in.Heading)
	}
	if in.Content != nil {
		u.Content = strings.TrimSpace(*in.Content)
	}
	if in.SocialLink != nil {
		u.SocialLink = entity.NormalizeSocialLink(*in.SocialLink)
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update live update: %w", err)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidLiveUpdateID
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete live update: %w", err)
	}
	return nil
}

// GenerateDemo posts the next canned update from the demo rotation.
func (s *Service) GenerateDemo(ctx context.Context, articleID int64) (*entity.LiveUpdate, error) {
	n := s.demoSeq.Add(1) - 1
	return s.create(ctx, CreateInput{
		ArticleID: articleID,
		Heading:   DemoHeading,
		Content:   demoTexts[n%uint64(len(demoTexts))],
	}, OriginDemo)
}
