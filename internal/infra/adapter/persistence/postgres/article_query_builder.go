// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"
	"strings"

	"newshub/internal/domain/entity"
	"newshub/internal/pkg/search"
	"newshub/internal/repository"
)

// ArticleQueryBuilder builds WHERE and ORDER BY clauses for article queries in PostgreSQL.
// The same WHERE clause feeds both the COUNT and the SELECT of a listing.
// It uses PostgreSQL-specific features like ILIKE and numbered placeholders ($1, $2, etc.).
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildListWhere builds the WHERE clause for a listing filter.
// Returns empty string if no conditions apply.
func (qb *ArticleQueryBuilder) BuildListWhere(filter repository.ArticleFilter) (clause string, args []interface{}) {
	var conditions []string
	next := func() int { return len(args) + 1 }

	if !filter.IncludeDrafts {
		conditions = append(conditions, fmt.Sprintf("status = $%d", next()))
		args = append(args, string(entity.StatusPublished))
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(category) = LOWER($%d)", next()))
		args = append(args, filter.Category)
	}
	if filter.LiveOnly {
		conditions = append(conditions, "is_live = TRUE")
	}
	if filter.FeaturedOnly {
		conditions = append(conditions, "featured = TRUE")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// BuildSearchWhere builds the WHERE clause for a keyword search over published articles.
// The keyword is matched case-insensitively against title, summary, content and tags.
func (qb *ArticleQueryBuilder) BuildSearchWhere(keyword string) (clause string, args []interface{}) {
	pattern := search.EscapeLike(keyword)
	clause = `WHERE status = $1
  AND (title   ILIKE $2 ESCAPE '\'
    OR summary ILIKE $2 ESCAPE '\'
    OR content ILIKE $2 ESCAPE '\'
    OR tags    ILIKE $2 ESCAPE '\')`
	return clause, []interface{}{string(entity.StatusPublished), pattern}
}

// OrderBy returns the ORDER BY clause: live articles first, then the requested sort,
// ties broken by insertion order.
func (qb *ArticleQueryBuilder) OrderBy(sort repository.ArticleSort) string {
	switch sort {
	case repository.SortOldest:
		return "ORDER BY is_live DESC, published_at ASC, id ASC"
	case repository.SortPopular:
		return "ORDER BY is_live DESC, view_count DESC, id ASC"
	default:
		return "ORDER BY is_live DESC, published_at DESC, id ASC"
	}
}

// LimitOffset appends LIMIT/OFFSET placeholders when limit is positive.
func (qb *ArticleQueryBuilder) LimitOffset(limit, offset int, args []interface{}) (string, []interface{}) {
	if limit <= 0 {
		if offset > 0 {
			return fmt.Sprintf("OFFSET $%d", len(args)+1), append(args, offset)
		}
		return "", args
	}
	n := len(args) + 1
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", n, n+1), append(args, limit, offset)
}
