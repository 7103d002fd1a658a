package sqlite

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

// ArticleRepo implements the ArticleRepository interface using SQLite.
type ArticleRepo struct {
	db           *sql.DB
	queryBuilder *ArticleQueryBuilder
}

// NewArticleRepo creates a new SQLite-backed article repository.
func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{db: db, queryBuilder: NewArticleQueryBuilder()}
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
		return nil, fmt.Errorf("%s: QueryContext: %w", op, err)
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

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows.Err: %w", op, err)
	}
	return articles, nil
}

// List retrieves articles matching filter, live articles first.
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

// Count returns the number of articles matching filter.
func (repo *ArticleRepo) Count(ctx context.Context, filter repository.ArticleFilter) (int64, error) {
	where, args := repo.queryBuilder.BuildListWhere(filter)
	var count int64
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles "+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: QueryRowContext: %w", err)
	}
	return count, nil
}

// Get retrieves an article by ID. Returns (nil, nil) when absent.
func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	query := `
SELECT ` + articleColumns + `
FROM articles
WHERE id = ?
LIMIT 1`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: QueryRowContext: %w", err)
	}
	return article, nil
}

// Search matches keyword against title, summary, content and tags of published articles.
func (repo *ArticleRepo) Search(ctx context.Context, filter repository.SearchFilter) ([]*entity.Article, error) {
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

// CountSearch returns the number of published articles matching keyword.
func (repo *ArticleRepo) CountSearch(ctx context.Context, keyword string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, search.DefaultSearchTimeout)
	defer cancel()

	where, args := repo.queryBuilder.BuildSearchWhere(keyword)
	var count int64
	if err := repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles "+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountSearch: QueryRowContext: %w", err)
	}
	return count, nil
}

// Create inserts an article and stores the generated ID on it.
func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	const query = `
INSERT INTO articles
       (title, summary, content, category, author, image_url,
        featured, is_live, view_count, tags, status, published_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Summary, article.Content, article.Category,
		article.Author, article.ImageURL, article.Featured, article.IsLive,
		article.ViewCount, entity.JoinTags(article.Tags), string(article.Status),
		article.PublishedAt, article.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: ExecContext: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("Create: LastInsertId: %w", err)
	}
	article.ID = id
	return nil
}

// Update rewrites every mutable column. view_count is only changed by IncrementViewCount.
func (repo *ArticleRepo) Update(ctx context.Context, article *entity.Article) error {
	const query = `
UPDATE articles SET
       title        = ?,
       summary      = ?,
       content      = ?,
       category     = ?,
       author       = ?,
       image_url    = ?,
       featured     = ?,
       is_live      = ?,
       tags         = ?,
       status       = ?,
       published_at = ?,
       updated_at   = ?
WHERE id = ?`
	res, err := repo.db.ExecContext(ctx, query,
		article.Title, article.Summary, article.Content, article.Category,
		article.Author, article.ImageURL, article.Featured, article.IsLive,
		entity.JoinTags(article.Tags), string(article.Status),
		article.PublishedAt, article.UpdatedAt, article.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

// Delete removes the article row only.
func (repo *ArticleRepo) Delete(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) IncrementViewCount(ctx context.Context, id int64) error {
	res, err := repo.db.ExecContext(ctx, `UPDATE articles SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("IncrementViewCount: ExecContext: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("IncrementViewCount: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *ArticleRepo) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var existsFlag int
	err := repo.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM articles WHERE title = ?)`, title).Scan(&existsFlag)
	if err != nil {
		return false, fmt.Errorf("ExistsByTitle: QueryRowContext: %w", err)
	}
	return existsFlag == 1, nil
}
