package datasource

import (
	"context"

	"newshub/internal/common/pagination"
	"newshub/internal/domain/entity"
	"newshub/internal/usecase/article"
	"newshub/internal/usecase/liveupdate"
)

// Local reads through the usecase services of this process.
type Local struct {
	Articles    *article.Service
	LiveUpdates *liveupdate.Service
}

func NewLocal(articles *article.Service, updates *liveupdate.Service) *Local {
	return &Local{Articles: articles, LiveUpdates: updates}
}

func (l *Local) ListArticles(ctx context.Context, q ArticleQuery) ([]*entity.Article, error) {
	res, err := l.Articles.List(ctx, article.ListQuery{
		Category: q.Category,
		Sort:     q.Sort,
		Params:   pagination.Params{Page: 1, Limit: q.Limit},
		Offset:   q.Offset,
	})
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (l *Local) GetArticle(ctx context.Context, id int64) (*entity.Article, error) {
	return l.Articles.Get(ctx, id)
}

func (l *Local) ListLiveUpdates(ctx context.Context, q LiveUpdateQuery) ([]*entity.LiveUpdate, error) {
	return l.LiveUpdates.List(ctx, q.ArticleID, q.Limit)
}

func (l *Local) IncrementViewCount(ctx context.Context, id int64) {
	l.Articles.IncrementViewCount(ctx, id)
}

var _ DataSource = (*Local)(nil)
