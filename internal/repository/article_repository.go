package repository

import (
	"context"
	"strings"

	"newshub/internal/domain/entity"
)

// ArticleSort is the secondary ordering applied after live articles are placed first.
type ArticleSort string

const (
	SortNewest  ArticleSort = "newest"
	SortOldest  ArticleSort = "oldest"
	SortPopular ArticleSort = "popular"
)

// ParseArticleSort maps a query value to an ArticleSort, defaulting to SortNewest.
func ParseArticleSort(raw string) (ArticleSort, bool) {
	switch ArticleSort(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SortNewest:
		return SortNewest, true
	case SortOldest:
		return SortOldest, true
	case SortPopular:
		return SortPopular, true
	default:
		return SortNewest, false
	}
}

// ArticleFilter selects articles for listing.
// Category matches case-insensitively; drafts are excluded unless IncludeDrafts is set.
// Results are ordered live first, then by Sort, ties broken by insertion order.
type ArticleFilter struct {
	Category      string
	Sort          ArticleSort
	Limit         int // 0 means no limit
	Offset        int
	LiveOnly      bool
	FeaturedOnly  bool
	IncludeDrafts bool
}

// SearchFilter is a contains-match over title, summary, content and tags,
// restricted to published articles, newest first.
type SearchFilter struct {
	Keyword string
	Limit   int
	Offset  int
}

type ArticleRepository interface {
	List(ctx context.Context, filter ArticleFilter) ([]*entity.Article, error)
	// Count returns the number of articles matching filter, ignoring Limit and Offset.
	Count(ctx context.Context, filter ArticleFilter) (int64, error)
	// Get returns (nil, nil) if the article is not found.
	Get(ctx context.Context, id int64) (*entity.Article, error)
	Search(ctx context.Context, filter SearchFilter) ([]*entity.Article, error)
	CountSearch(ctx context.Context, keyword string) (int64, error)
	Create(ctx context.Context, article *entity.Article) error
	Update(ctx context.Context, article *entity.Article) error
	// Delete removes only the article; live updates referencing it are kept.
	Delete(ctx context.Context, id int64) error
	IncrementViewCount(ctx context.Context, id int64) error
	ExistsByTitle(ctx context.Context, title string) (bool, error)
}
