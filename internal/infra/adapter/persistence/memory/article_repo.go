package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"newshub/internal/domain/entity"
	"newshub/internal/live"
	"newshub/internal/repository"
)

// ArticleRepo implements repository.ArticleRepository over a Store.
type ArticleRepo struct {
	s *Store
}

func (r *ArticleRepo) matching(filter repository.ArticleFilter) []*entity.Article {
	out := make([]*entity.Article, 0, len(r.s.articles))
	for _, a := range r.s.articles {
		if !filter.IncludeDrafts && !a.IsPublished() {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(a.Category, filter.Category) {
			continue
		}
		if filter.LiveOnly && !a.IsLive {
			continue
		}
		if filter.FeaturedOnly && !a.Featured {
			continue
		}
		out = append(out, cloneArticle(a))
	}
	return out
}

func (r *ArticleRepo) List(ctx context.Context, filter repository.ArticleFilter) ([]*entity.Article, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	r.s.mu.RLock()
	items := r.matching(filter)
	r.s.mu.RUnlock()

	// articles are kept in id order, so the stable sort breaks ties by insertion
	live.SortArticles(items, filter.Sort)
	lo, hi := window(len(items), filter.Offset, filter.Limit)
	return items[lo:hi], nil
}

func (r *ArticleRepo) Count(ctx context.Context, filter repository.ArticleFilter) (int64, error) {
	if err := r.s.wait(ctx); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.matching(filter))), nil
}

func (r *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if i := r.index(id); i >= 0 {
		return cloneArticle(r.s.articles[i]), nil
	}
	return nil, nil
}

func (r *ArticleRepo) searchMatches(keyword string) []*entity.Article {
	needle := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]*entity.Article, 0)
	for _, a := range r.s.articles {
		if !a.IsPublished() {
			continue
		}
		if strings.Contains(strings.ToLower(a.Title), needle) ||
			strings.Contains(strings.ToLower(a.Summary), needle) ||
			strings.Contains(strings.ToLower(a.Content), needle) ||
			strings.Contains(strings.ToLower(entity.JoinTags(a.Tags)), needle) {
			out = append(out, cloneArticle(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	return out
}

func (r *ArticleRepo) Search(ctx context.Context, filter repository.SearchFilter) ([]*entity.Article, error) {
	if err := r.s.wait(ctx); err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	r.s.mu.RLock()
	items := r.searchMatches(filter.Keyword)
	r.s.mu.RUnlock()
	lo, hi := window(len(items), filter.Offset, filter.Limit)
	return items[lo:hi], nil
}

func (r *ArticleRepo) CountSearch(ctx context.Context, keyword string) (int64, error) {
	if err := r.s.wait(ctx); err != nil {
		return 0, fmt.Errorf("CountSearch: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.searchMatches(keyword))), nil
}

func (r *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	if err := r.s.wait(ctx); err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lastArticleID++
	article.ID = r.s.lastArticleID
	r.s.articles = append(r.s.articles, cloneArticle(article))
	return nil
}

func (r *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	if err := r.s.wait(ctx); err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.index(article.ID)
	if i < 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	updated := cloneArticle(article)
	updated.ViewCount = r.s.articles[i].ViewCount
	r.s.articles[i] = updated
	return nil
}

func (r *ArticleRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.wait(ctx); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	r.s.articles = append(r.s.articles[:i], r.s.articles[i+1:]...)
	return nil
}

func (r *ArticleRepo) IncrementViewCount(ctx context.Context, id int64) error {
	if err := r.s.wait(ctx); err != nil {
		return fmt.Errorf("IncrementViewCount: %w", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("IncrementViewCount: %w", entity.ErrNotFound)
	}
	r.s.articles[i].ViewCount++
	return nil
}

func (r *ArticleRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	if err := r.s.wait(ctx); err != nil {
		return false, fmt.Errorf("ExistsByTitle: %w", err)
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.articles {
		if a.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// index must be called with the lock held.
func (r *ArticleRepo) index(id int64) int {
	for i, a := range r.s.articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}
