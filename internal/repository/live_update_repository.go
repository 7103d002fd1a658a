package repository

import (
	"context"

	"newshub/internal/domain/entity"
)

// LiveUpdateFilter selects live updates newest first.
// A nil ArticleID selects the global feed across all articles.
type LiveUpdateFilter struct {
	ArticleID *int64
	Limit     int
}

type LiveUpdateRepository interface {
	List(ctx context.Context, filter LiveUpdateFilter) ([]*entity.LiveUpdate, error)
	// Get returns (nil, nil) if the live update is not found.
	Get(ctx context.Context, id int64) (*entity.LiveUpdate, error)
	Create(ctx context.Context, update *entity.LiveUpdate) error
	Update(ctx context.Context, update *entity.LiveUpdate) error
	Delete(ctx context.Context, id int64) error
}
