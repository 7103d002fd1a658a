// Package datasource is the read side consumed by live views and the worker.
// Local serves it from this process; infra/remote serves it over HTTP from
// another newshub instance.
package datasource

import (
	"context"

	"newshub/internal/domain/entity"
	"newshub/internal/live"
	"newshub/internal/repository"
)

type ArticleQuery struct {
	Category string
	Sort     repository.ArticleSort
	Limit    int
	Offset   int
}

// LiveUpdateQuery selects a live feed. A nil ArticleID is the global feed.
type LiveUpdateQuery struct {
	ArticleID *int64
	Limit     int
}

// DataSource is implemented by Local and remote.Client.
//
// GetArticle returns an error matching entity.ErrNotFound when the article is
// gone; callers must expect that even for ids they just listed. Other failures
// from a remote source match entity.ErrTransport.
type DataSource interface {
	ListArticles(ctx context.Context, q ArticleQuery) ([]*entity.Article, error)
	GetArticle(ctx context.Context, id int64) (*entity.Article, error)
	ListLiveUpdates(ctx context.Context, q LiveUpdateQuery) ([]*entity.LiveUpdate, error)
	// IncrementViewCount is fire-and-forget; failures are logged by the implementation.
	IncrementViewCount(ctx context.Context, id int64)
}

// Articles adapts a listing to a live view fetch.
func Articles(ds DataSource, q ArticleQuery) live.FetchFunc[*entity.Article] {
	return func(ctx context.Context) ([]*entity.Article, error) {
		return ds.ListArticles(ctx, q)
	}
}

// LiveUpdates adapts a live feed to a live view fetch.
func LiveUpdates(ds DataSource, q LiveUpdateQuery) live.FetchFunc[*entity.LiveUpdate] {
	return func(ctx context.Context) ([]*entity.LiveUpdate, error) {
		return ds.ListLiveUpdates(ctx, q)
	}
}

// LiveEligible reports whether a detail page should poll: only live articles
// receive updates.
func LiveEligible(a *entity.Article) func() bool {
	return func() bool { return a != nil && a.IsLive }
}
