package memory

import (
	"context"
	"fmt"
	"sort"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

// CategoryRepo implements repository.CategoryRepository over a Store.
type CategoryRepo struct {
	s *Store
}

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Category, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	r.s.mu.RLock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, cloneCategory(c))
	}
	r.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CategoryRepo) Get(ctx context.Context, id int64) (*entity.Category, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		return cloneCategory(r.s.categories[i]), nil
	}
	return nil, nil
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.categories {
		if c.Slug == slug {
			return cloneCategory(c), nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) MaxSortOrder(ctx context.Context) (int, error) {
	if err := r.s.wait(ctx); err != nil {
		return 0, fmt.Errorf("MaxSortOrder: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	highest := 0
	for _, c := range r.s.categories {
		highest = max(highest, c.SortOrder)
	}
	return highest, nil
}

func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	if err := r.s.wait(ctx); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Slug == category.Slug {
			return fmt.Errorf("Create: slug %q already exists", category.Slug)
		}
	}
	r.s.lastCategoryID++
	category.ID = r.s.lastCategoryID
	r.s.categories = append(r.s.categories, cloneCategory(category))
	return nil
}

func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	if err := r.s.wait(ctx); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.index(category.ID)
	if i < 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	r.s.categories[i] = cloneCategory(category)
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.wait(ctx); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	r.s.categories = append(r.s.categories[:i], r.s.categories[i+1:]...)
	return nil
}

// Reorder is all-or-nothing: an unknown id leaves every sort order untouched.
func (r *CategoryRepo) Reorder(ctx context.Context, ids []int64) error {
	if err := r.s.wait(ctx); err != nil {
		return fmt.Errorf("Reorder: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	positions := make([]int, len(ids))
	for n, id := range ids {
		i := r.index(id)
		if i < 0 {
			return fmt.Errorf("Reorder: category %d: %w", id, entity.ErrNotFound)
		}
		positions[n] = i
	}
	for n, i := range positions {
		r.s.categories[i].SortOrder = n + 1
	}
	return nil
}

func (r *CategoryRepo) index(id int64) int {
	for i, c := range r.s.categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}
