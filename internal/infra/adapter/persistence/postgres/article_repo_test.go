package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"newshub/internal/domain/entity"
	pg "newshub/internal/infra/adapter/persistence/postgres"
	"newshub/internal/repository"
)

/* ─────────────────────────── ヘルパ ─────────────────────────── */

var articleCols = []string{
	"id", "title", "summary", "content", "category", "author", "image_url",
	"featured", "is_live", "view_count", "tags", "status", "published_at", "updated_at",
}

func artRow(rows *sqlmock.Rows, a *entity.Article) *sqlmock.Rows {
	return rows.AddRow(
		a.ID, a.Title, a.Summary, a.Content, a.Category, a.Author, a.ImageURL,
		a.Featured, a.IsLive, a.ViewCount, entity.JoinTags(a.Tags), string(a.Status),
		a.PublishedAt, a.UpdatedAt,
	)
}

func sampleArticle(id int64, live bool) *entity.Article {
	now := time.Date(2025, 7, 19, 0, 0, 0, 0, time.UTC)
	return &entity.Article{
		ID: id, Title: "Election night", Summary: "Polls close",
		Content: "<p>Results</p>", Category: "politics", Author: "Desk",
		IsLive: live, ViewCount: 3, Tags: []string{"election", "live"},
		Status: entity.StatusPublished, PublishedAt: now, UpdatedAt: now,
	}
}

/* ─────────────────────────── 1. Get ─────────────────────────── */

func TestArticleRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := sampleArticle(1, true)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id")).
		WithArgs(int64(1)).
		WillReturnRows(artRow(sqlmock.NewRows(articleCols), want))

	repo := pg.NewArticleRepo(db)
	got, err := repo.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM articles").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(articleCols))

	got, err := pg.NewArticleRepo(db).Get(context.Background(), 99)
	if err != nil || got != nil {
		t.Fatalf("want (nil, nil), got (%v, %v)", got, err)
	}
}

/* ─────────────────────────── 2. List / Count ─────────────────────────── */

func TestArticleRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows(articleCols)
	artRow(rows, sampleArticle(2, true))
	artRow(rows, sampleArticle(1, false))

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY is_live DESC, view_count DESC, id ASC")).
		WithArgs("published", "politics", 12, 12).
		WillReturnRows(rows)

	got, err := pg.NewArticleRepo(db).List(context.Background(), repository.ArticleFilter{
		Category: "politics", Sort: repository.SortPopular, Limit: 12, Offset: 12,
	})
	if err != nil || len(got) != 2 {
		t.Fatalf("List err=%v len=%d", err, len(got))
	}
	if !got[0].IsLive || got[1].IsLive {
		t.Errorf("live article must come first")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_Count(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM articles WHERE status = $1")).
		WithArgs("published").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	got, err := pg.NewArticleRepo(db).Count(context.Background(), repository.ArticleFilter{Limit: 5})
	if err != nil || got != 42 {
		t.Fatalf("Count = %d, %v", got, err)
	}
}

/* ─────────────────────────── 3. Search ─────────────────────────── */

func TestArticleRepo_Search(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("ILIKE").
		WithArgs("published", "%vote%", 20, 0).
		WillReturnRows(artRow(sqlmock.NewRows(articleCols), sampleArticle(1, false)))

	got, err := pg.NewArticleRepo(db).Search(context.Background(),
		repository.SearchFilter{Keyword: "vote", Limit: 20})
	if err != nil || len(got) != 1 {
		t.Fatalf("Search err=%v len=%d", err, len(got))
	}
}

/* ─────────────────────────── 4. Create / Update / Delete ─────────────────────────── */

func TestArticleRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	a := sampleArticle(0, false)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO articles")).
		WithArgs(a.Title, a.Summary, a.Content, a.Category, a.Author, a.ImageURL,
			a.Featured, a.IsLive, a.ViewCount, "election,live", "published",
			a.PublishedAt, a.UpdatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	if err := pg.NewArticleRepo(db).Create(context.Background(), a); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if a.ID != 7 {
		t.Errorf("ID = %d, want 7", a.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_Update_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec("UPDATE articles").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := pg.NewArticleRepo(db).Update(context.Background(), sampleArticle(5, false))
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestArticleRepo_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM articles WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := pg.NewArticleRepo(db).Delete(context.Background(), 3); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestArticleRepo_IncrementViewCount(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("SET view_count = view_count + 1")).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := pg.NewArticleRepo(db).IncrementViewCount(context.Background(), 3); err != nil {
		t.Fatalf("IncrementViewCount err=%v", err)
	}
}

func TestArticleRepo_ExistsByTitle(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("Election night").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := pg.NewArticleRepo(db).ExistsByTitle(context.Background(), "Election night")
	if err != nil || !ok {
		t.Fatalf("ExistsByTitle = %v, %v", ok, err)
	}
}
