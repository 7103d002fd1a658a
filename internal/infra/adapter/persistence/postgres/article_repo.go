package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"newshub/internal/domain/entity"
	"newshub/internal/observability/metrics"
	"newshub/internal/pkg/search"
	"newshub/internal/repository"
)

const articleColumns = `id, title, summary, content, category, author, image_url,
       featured, is_live, view_count, tags, status, published_at, updated_at`

type ArticleRepo struct {
	db           *sql.DB
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(s rowScanner) (*entity.Article, error) {
	var (
		article entity.Article
		tags    string
		status  string
	)
	if err := s.Scan(&article.ID, &article.Title, &article.Summary, &article.Content,
		&article.Category, &article.Author, &article.ImageURL,
		&article.Featured, &article.IsLive, &article.ViewCount,
		&tags, &status, &article.PublishedAt, &article.UpdatedAt); err != nil {
		return nil, err
	}
	article.Tags = entity.SplitTags(tags)
	article.Status = entity.ArticleStatus(status)
	return &article, nil
}

func (repo *ArticleRepo) queryArticles(ctx context.Context, op, query string, args ...interface{}) ([]*entity.Article, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(op, time.Since(start)) }()

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 50)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		articles = append(articles, article)
	}
	return articles, rows.Err()
}

func (repo *ArticleRepo) List(ctx context.Context, filter repository.ArticleFilter) ([]*entity.Article, error) {
	where, args := repo.queryBuilder.BuildListWhere(filter)
	page, args := repo.queryBuilder.LimitOffset(filter.Limit, filter.Offset, args)
	query := fmt.Sprintf(`
SELECT %s
FROM articles
%s
%s
%s`, articleColumns, where, repo.queryBuilder.OrderBy(filter.Sort), page)
	return repo.queryArticles(ctx, "List", query, args...)
}

func (repo *ArticleRepo) Count(ctx context.Context, filter repository.ArticleFilter) (int64, error) {
	where, args := repo.queryBuilder.BuildListWhere(filter)
	query := "SELECT COUNT(*) FROM articles " + where
	var count int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	query := `
SELECT ` + articleColumns + `
FROM articles
WHERE id = $1
LIMIT 1`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) Search(ctx context.Context, filter repository.SearchFilter) ([]*entity.Article, error) {
	// Apply search timeout to prevent long-running queries
	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	where, args := repo.queryBuilder.BuildSearchWhere(filter.Keyword)
	page, args := repo.queryBuilder.LimitOffset(filter.Limit, filter.Offset, args)
	query := fmt.Sprintf(`
SELECT %s
FROM articles
%s
ORDER BY published_at DESC, id ASC
%s`, articleColumns, where, page)
	return repo.queryArticles(ctx, "Search", query, args...)
}

func (repo *ArticleRepo) CountSearch(ctx context.Context, keyword string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	where, args := repo.queryBuilder.BuildSearchWhere(keyword)
	var count int64
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles "+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountSearch: %w", err)
	}
	return count, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles
       (title, summary, content, category, author, image_url,
        featured, is_live, view_count, tags, status, published_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		article.Title, article.Summary, article.Content, article.Category,
		article.Author, article.ImageURL, article.Featured, article.IsLive,
		article.ViewCount, entity.JoinTags(article.Tags), string(article.Status),
		article.PublishedAt, article.UpdatedAt,
	).Scan(&article.ID)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	const query = `
UPDATE articles SET
       title        = $1,
       summary      = $2,
       content      = $3,
       category     = $4,
       author       = $5,
       image_url    = $6,
       featured     = $7,
       is_live      = $8,
       tags         = $9,
       status       = $10,
       published_at = $11,
       updated_at   = $12
WHERE id = $13`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Summary, article.Content, article.Category,
		article.Author, article.ImageURL, article.Featured, article.IsLive,
		entity.JoinTags(article.Tags), string(article.Status),
		article.PublishedAt, article.UpdatedAt, article.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM articles WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) IncrementViewCount(ctx context.Context, id int64) error {
	const query = `UPDATE articles SET view_count = view_count + 1 WHERE id = $1`
	res, err := repo.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("IncrementViewCount: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("IncrementViewCount: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM articles WHERE title = $1)`
	var existsFlag bool
	if err := repo.db.QueryRowContext(ctx, query, title).Scan(&existsFlag); err != nil {
		return false, fmt.Errorf("ExistsByTitle: %w", err)
	}
	return existsFlag, nil
}
