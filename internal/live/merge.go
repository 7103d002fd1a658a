package live

import (
	"sort"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

// Identified is implemented by anything a view can display.
type Identified interface {
	GetID() int64
}

// Merged is the result of reconciling a refreshed collection.
type Merged[T Identified] struct {
	// Items is exactly the refreshed collection, in server order.
	Items []T
	// NewID is the head identity flagged as new; only valid when HasNew is set.
	NewID  int64
	HasNew bool
}

// Merge replaces prev with next. Only the head is compared: the head of next is
// flagged new when its identity differs from the head of prev. An empty next
// flags nothing.
func Merge[T Identified](prev, next []T) Merged[T] {
	m := Merged[T]{Items: next}
	if len(next) == 0 {
		return m
	}
	head := next[0].GetID()
	if len(prev) == 0 || prev[0].GetID() != head {
		m.NewID = head
		m.HasNew = true
	}
	return m
}

// SortArticles orders articles in place: live articles first, then by sort.
// The sort is stable, so equal keys keep their incoming order.
func SortArticles(articles []*entity.Article, by repository.ArticleSort) {
	sort.SliceStable(articles, func(i, j int) bool {
		a, b := articles[i], articles[j]
		if a.IsLive != b.IsLive {
			return a.IsLive
		}
		switch by {
		case repository.SortOldest:
			return a.PublishedAt.Before(b.PublishedAt)
		case repository.SortPopular:
			return a.ViewCount > b.ViewCount
		default:
			return a.PublishedAt.After(b.PublishedAt)
		}
	})
}

// Page is one page of a refreshed collection.
type Page[T any] struct {
	Items      []T
	Page       int // effective 1-based page
	PerPage    int
	TotalPages int
	TotalItems int
	// Clamped is set when the requested page no longer exists and the last
	// valid page was returned instead.
	Clamped bool
}

// Paginate slices items for the requested 1-based page. The caller keeps its
// page across refreshes; when a refresh shrinks the set below that page the
// result is clamped to the last valid page.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = 12
	}
	if page < 1 {
		page = 1
	}
	total := len(items)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}

	p := Page[T]{Page: page, PerPage: perPage, TotalPages: totalPages, TotalItems: total}
	if page > totalPages {
		p.Page = totalPages
		p.Clamped = true
	}

	start := (p.Page - 1) * perPage
	end := start + perPage
	if end > total {
		end = total
	}
	p.Items = items[start:end]
	return p
}
