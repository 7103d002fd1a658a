package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/domain/entity"
	pg "newshub/internal/infra/adapter/persistence/postgres"
	"newshub/internal/repository"
)

var liveUpdateCols = []string{"id", "article_id", "heading", "content", "social_link", "posted_at"}

func TestLiveUpdateRepo_List_ByArticle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	t1 := time.Date(2025, 7, 19, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(liveUpdateCols).
		AddRow(int64(2), int64(9), "Breaking", "Second", "https://x.com/a/1", t1.Add(time.Minute)).
		AddRow(int64(1), int64(9), "Live Update", "First", nil, t1)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE article_id = $1\nORDER BY posted_at DESC, id DESC\nLIMIT $2")).
		WithArgs(int64(9), 10).
		WillReturnRows(rows)

	articleID := int64(9)
	got, err := pg.NewLiveUpdateRepo(db).List(context.Background(),
		repository.LiveUpdateFilter{ArticleID: &articleID, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].SocialLink)
	assert.Equal(t, "https://x.com/a/1", *got[0].SocialLink)
	assert.Nil(t, got[1].SocialLink)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLiveUpdateRepo_List_Global(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("FROM live_updates\nORDER BY posted_at DESC, id DESC")).
		WillReturnRows(sqlmock.NewRows(liveUpdateCols))

	got, err := pg.NewLiveUpdateRepo(db).List(context.Background(), repository.LiveUpdateFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLiveUpdateRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now()
	u := &entity.LiveUpdate{ArticleID: 4, Heading: "Live Update", Content: "Polls closed", Timestamp: now}
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO live_updates")).
		WithArgs(int64(4), "Live Update", "Polls closed", nil, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	require.NoError(t, pg.NewLiveUpdateRepo(db).Create(context.Background(), u))
	assert.Equal(t, int64(11), u.ID)
}

func TestLiveUpdateRepo_Update_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE live_updates").WillReturnResult(sqlmock.NewResult(0, 0))

	err = pg.NewLiveUpdateRepo(db).Update(context.Background(), &entity.LiveUpdate{ID: 3})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestLiveUpdateRepo_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM live_updates").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(liveUpdateCols))

	got, err := pg.NewLiveUpdateRepo(db).Get(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
