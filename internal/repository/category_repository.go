package repository

import (
	"context"

	"newshub/internal/domain/entity"
)

type CategoryRepository interface {
	// List returns categories ordered by sort order.
	List(ctx context.Context, activeOnly bool) ([]*entity.Category, error)
	// Get returns (nil, nil) if the category is not found.
	Get(ctx context.Context, id int64) (*entity.Category, error)
	// GetBySlug returns (nil, nil) if no category has the slug.
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	MaxSortOrder(ctx context.Context) (int, error)
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id int64) error
	// Reorder assigns sort_order = position+1 to each id.
	Reorder(ctx context.Context, ids []int64) error
}
