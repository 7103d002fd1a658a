package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

// CreateInput carries the fields for a new category. Blank fields take the
// category defaults; a nil IsActive means active and a zero SortOrder appends.
type CreateInput struct {
	Name        string
	Slug        string
	Description string
	Color       string
	Icon        string
	SortOrder   int
	IsActive    *bool
}

// UpdateInput carries a partial update. Fields with nil values will not be updated.
type UpdateInput struct {
	Name        *string
	Slug        *string
	Description *string
	Color       *string
	Icon        *string
	SortOrder   *int
	IsActive    *bool
}

type Service struct {
	Repo   repository.CategoryRepository
	Logger *slog.Logger
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// List returns categories in display order.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	categories, err := s.Repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*entity.Category, error) {
	if id <= 0 {
		return nil, ErrInvalidCategoryID
	}
	c, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, &entity.ValidationError{Field: "slug", Message: "slug is required"}
	}
	c, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get category by slug: %w", err)
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

// Create applies defaults, checks slug uniqueness and stores the category.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.Category, error) {
	c := &entity.Category{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Color:       strings.TrimSpace(in.Color),
		Icon:        strings.TrimSpace(in.Icon),
		SortOrder:   in.SortOrder,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if c.Name == "" {
		c.Name = entity.DefaultCategoryName
	}
	if c.Color == "" {
		c.Color = entity.DefaultCategoryColor
	}
	if c.Icon == "" {
		c.Icon = entity.DefaultCategoryIcon
	}
	c.Slug = entity.Slugify(in.Slug)
	if c.Slug == "" {
		c.Slug = entity.Slugify(c.Name)
	}
	if c.SortOrder <= 0 {
		highest, err := s.Repo.MaxSortOrder(ctx)
		if err != nil {
			return nil, fmt.Errorf("max sort order: %w", err)
		}
		c.SortOrder = highest + 1
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, c.Slug, 0); err != nil {
		return nil, err
	}

	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.logger().Info("category created",
		slog.Int64("category_id", c.ID),
		slog.String("slug", c.Slug))
	return c, nil
}

// Update applies the supplied fields. A changed slug must stay unique.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*entity.Category, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		c.Slug = entity.Slugify(*in.Slug)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if in.Color != nil {
		c.Color = strings.TrimSpace(*in.Color)
	}
	if in.Icon != nil {
		c.Icon = strings.TrimSpace(*in.Icon)
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	if in.Slug != nil {
		if err := s.ensureSlugFree(ctx, c.Slug, c.ID); err != nil {
			return nil, err
		}
	}
	if err := s.Repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

func (s *Service) ensureSlugFree(ctx context.Context, slug string, self int64) error {
	existing, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("check slug: %w", err)
	}
	if existing != nil && existing.ID != self {
		return &entity.ValidationError{Field: "slug", Message: fmt.Sprintf("slug %q is already in use", slug)}
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidCategoryID
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// Reorder assigns display positions in the order given. Every id must exist;
// duplicates are rejected.
func (s *Service) Reorder(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return &entity.ValidationError{Field: "ids", Message: "at least one id is required"}
	}
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return ErrInvalidCategoryID
		}
		if _, dup := seen[id]; dup {
			return &entity.ValidationError{Field: "ids", Message: fmt.Sprintf("id %d appears more than once", id)}
		}
		seen[id] = struct{}{}
	}
	if err := s.Repo.Reorder(ctx, ids); err != nil {
		return fmt.Errorf("reorder categories: %w", err)
	}
	s.logger().Info("categories reordered", slog.Int("count", len(ids)))
	return nil
}
