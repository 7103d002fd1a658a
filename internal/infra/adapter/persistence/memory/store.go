// Package memory is an in-process implementation of the article, live update
// and category repositories. It backs demos, the CLI's offline mode and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

// Store holds every collection behind a single lock.
// IDs are assigned as the highest ID ever seen plus one, so deleted IDs are never reused.
type Store struct {
	mu sync.RWMutex

	articles   []*entity.Article
	updates    []*entity.LiveUpdate
	categories []*entity.Category

	lastArticleID  int64
	lastUpdateID   int64
	lastCategoryID int64

	delay time.Duration
	now   func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithDelay makes every call wait d before touching the data, mimicking a remote backend.
func WithDelay(d time.Duration) Option {
	return func(s *Store) { s.delay = d }
}

// WithClock overrides the time source used for server-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Articles returns the store's ArticleRepository view.
func (s *Store) Articles() repository.ArticleRepository { return &ArticleRepo{s: s} }

// LiveUpdates returns the store's LiveUpdateRepository view.
func (s *Store) LiveUpdates() repository.LiveUpdateRepository { return &LiveUpdateRepo{s: s} }

// Categories returns the store's CategoryRepository view.
func (s *Store) Categories() repository.CategoryRepository { return &CategoryRepo{s: s} }

// wait sleeps for the configured delay or until ctx is done.
func (s *Store) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func cloneArticle(a *entity.Article) *entity.Article {
	c := *a
	c.Tags = append([]string{}, a.Tags...)
	return &c
}

func cloneLiveUpdate(u *entity.LiveUpdate) *entity.LiveUpdate {
	c := *u
	if u.SocialLink != nil {
		link := *u.SocialLink
		c.SocialLink = &link
	}
	return &c
}

func cloneCategory(c *entity.Category) *entity.Category {
	cp := *c
	return &cp
}

// window applies offset and limit to n items and returns the slice bounds.
func window(n, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > n {
		offset = n
	}
	end := n
	if limit > 0 && offset+limit < n {
		end = offset + limit
	}
	return offset, end
}
