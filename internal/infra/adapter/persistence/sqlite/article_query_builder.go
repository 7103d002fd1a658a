// Package sqlite provides SQLite implementations of repository interfaces.
package sqlite

import (
	"strings"

	"newshub/internal/domain/entity"
	"newshub/internal/pkg/search"
	"newshub/internal/repository"
)

// ArticleQueryBuilder builds WHERE and ORDER BY clauses for article queries.
// The same WHERE clause feeds both the COUNT and the SELECT of a listing.
type ArticleQueryBuilder struct{}

// NewArticleQueryBuilder creates a new query builder instance.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{}
}

// BuildListWhere builds the WHERE clause for a listing filter.
// Returns empty string if no conditions apply.
func (qb *ArticleQueryBuilder) BuildListWhere(filter repository.ArticleFilter) (clause string, args []interface{}) {
	var conditions []string

	if !filter.IncludeDrafts {
		conditions = append(conditions, "status = ?")
		args = append(args, string(entity.StatusPublished))
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ? COLLATE NOCASE")
		args = append(args, filter.Category)
	}
	if filter.LiveOnly {
		conditions = append(conditions, "is_live = 1")
	}
	if filter.FeaturedOnly {
		conditions = append(conditions, "featured = 1")
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// BuildSearchWhere builds the WHERE clause for a keyword search over published articles.
// SQLite LIKE is case-insensitive for ASCII.
func (qb *ArticleQueryBuilder) BuildSearchWhere(keyword string) (clause string, args []interface{}) {
	pattern := search.EscapeLike(keyword)
	clause = `WHERE status = ?
  AND (title   LIKE ? ESCAPE '\'
    OR summary LIKE ? ESCAPE '\'
    OR content LIKE ? ESCAPE '\'
    OR tags    LIKE ? ESCAPE '\')`
	return clause, []interface{}{string(entity.StatusPublished), pattern, pattern, pattern, pattern}
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

// LimitOffset appends LIMIT/OFFSET placeholders. SQLite needs a LIMIT before OFFSET,
// so an unbounded listing with an offset uses LIMIT -1.
func (qb *ArticleQueryBuilder) LimitOffset(limit, offset int, args []interface{}) (string, []interface{}) {
	switch {
	case limit > 0:
		return "LIMIT ? OFFSET ?", append(args, limit, offset)
	case offset > 0:
		return "LIMIT -1 OFFSET ?", append(args, offset)
	default:
		return "", args
	}
}
