package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"newshub/internal/domain/entity"
	"newshub/internal/repository"
)

func updates(ids ...int64) []*entity.LiveUpdate {
	out := make([]*entity.LiveUpdate, len(ids))
	for i, id := range ids {
		out[i] = &entity.LiveUpdate{ID: id}
	}
	return out
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name    string
		prev    []*entity.LiveUpdate
		next    []*entity.LiveUpdate
		wantNew bool
		wantID  int64
	}{
		{name: "new head flagged", prev: updates(1), next: updates(2, 1), wantNew: true, wantID: 2},
		{name: "same head not flagged", prev: updates(2, 1), next: updates(2, 1), wantNew: false},
		{name: "same head with deeper changes not flagged", prev: updates(3, 2), next: updates(3, 9, 2), wantNew: false},
		{name: "head removed exposes older item", prev: updates(3, 2), next: updates(2), wantNew: true, wantID: 2},
		{name: "first item after empty", prev: nil, next: updates(1), wantNew: true, wantID: 1},
		{name: "empty refresh", prev: updates(1), next: nil, wantNew: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.prev, tt.next)
			assert.Equal(t, tt.next, got.Items, "items must be exactly the refreshed collection")
			assert.Equal(t, tt.wantNew, got.HasNew)
			if tt.wantNew {
				assert.Equal(t, tt.wantID, got.NewID)
			} else {
				assert.Zero(t, got.NewID)
			}
		})
	}
}

func TestSortArticles_LiveFirstForEverySort(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	build := func() []*entity.Article {
		return []*entity.Article{
			{ID: 1, Category: "technology", PublishedAt: base, ViewCount: 50},
			{ID: 2, Category: "technology", PublishedAt: base.Add(2 * time.Hour), ViewCount: 5, IsLive: true},
			{ID: 3, Category: "technology", PublishedAt: base.Add(time.Hour), ViewCount: 500},
			{ID: 4, Category: "technology", PublishedAt: base.Add(-time.Hour), ViewCount: 1, IsLive: true},
		}
	}

	tests := []struct {
		sort repository.ArticleSort
		want []int64
	}{
		{repository.SortNewest, []int64{2, 4, 3, 1}},
		{repository.SortOldest, []int64{4, 2, 1, 3}},
		{repository.SortPopular, []int64{2, 4, 3, 1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			articles := build()
			SortArticles(articles, tt.sort)
			got := make([]int64, len(articles))
			for i, a := range articles {
				got[i] = a.ID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortArticles_TiesKeepInsertionOrder(t *testing.T) {
	ts := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	articles := []*entity.Article{{ID: 1, PublishedAt: ts}, {ID: 2, PublishedAt: ts}, {ID: 3, PublishedAt: ts}}
	SortArticles(articles, repository.SortNewest)
	assert.Equal(t, int64(1), articles[0].ID)
	assert.Equal(t, int64(3), articles[2].ID)
}

func TestPaginate(t *testing.T) {
	items := make([]int, 30)
	for i := range items {
		items[i] = i
	}

	p := Paginate(items, 2, 12)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 12, len(p.Items))
	assert.Equal(t, 12, p.Items[0])
	assert.False(t, p.Clamped)

	p = Paginate(items, 3, 12)
	assert.Equal(t, []int{24, 25, 26, 27, 28, 29}, p.Items)
}

func TestPaginate_ShrunkSetClampsToLastPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	p := Paginate(items, 3, 2)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, []int{5}, p.Items)

	shrunk := items[:3]
	p = Paginate(shrunk, 3, 2)
	assert.True(t, p.Clamped)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, []int{3}, p.Items)

	p = Paginate([]int{}, 4, 2)
	assert.True(t, p.Clamped)
	assert.Equal(t, 1, p.Page)
	assert.Empty(t, p.Items)
}

func TestPaginate_Defaults(t *testing.T) {
	p := Paginate(make([]int, 20), 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 12, p.PerPage)
	assert.Len(t, p.Items, 12)
}
