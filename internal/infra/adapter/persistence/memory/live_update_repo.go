package memory

import (
	"context"
	"fmt"
	"sort"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

// LiveUpdateRepo implements repository.LiveUpdateRepository over a Store.
type LiveUpdateRepo struct {
	s *Store
}

func (r *LiveUpdateRepo) List(ctx context.Context, filter repository.LiveUpdateFilter) ([]*entity.LiveUpdate, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	r.s.mu.RLock()
	out := make([]*entity.LiveUpdate, 0)
	for _, u := range r.s.updates {
		if filter.ArticleID != nil && u.ArticleID != *filter.ArticleID {
			continue
		}
		out = append(out, cloneLiveUpdate(u))
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID > out[j].ID
	})
	_, hi := window(len(out), 0, filter.Limit)
	return out[:hi], nil
}

func (r *LiveUpdateRepo) Get(ctx context.Context, id int64) (*entity.LiveUpdate, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		return cloneLiveUpdate(r.s.updates[i]), nil
	}
	return nil, nil
}

func (r *LiveUpdateRepo) Create(ctx context.Context, update *entity.LiveUpdate) error {
	if err := r.s.wait(ctx); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lastUpdateID++
	update.ID = r.s.lastUpdateID
	if update.Timestamp.IsZero() {
		update.Timestamp = r.s.now()
	}
	r.s.updates = append(r.s.updates, cloneLiveUpdate(update))
	return nil
}

// Update keeps the stored timestamp; it is immutable once set.
func (r *LiveUpdateRepo) Update(ctx context.Context, update *entity.LiveUpdate) error {
	if err := r.s.wait(ctx); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.index(update.ID)
	if i < 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	updated := cloneLiveUpdate(update)
	updated.Timestamp = r.s.updates[i].Timestamp
	r.s.updates[i] = updated
	return nil
}

func (r *LiveUpdateRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.wait(ctx); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	r.s.updates = append(r.s.updates[:i], r.s.updates[i+1:]...)
	return nil
}

func (r *LiveUpdateRepo) index(id int64) int {
	for i, u := range r.s.updates {
		if u.ID == id {
			return i
		}
	}
	return -1
}
