package pagination

import (
	"fmt"
	"net/http"
	"strconv"

	"newshub/internal/domain/entity"
)

type Params struct {
	Page  int // 1-based
	Limit int
}

// ParseQueryParams reads page and limit from the query string. Missing values
// take the configured defaults; malformed or out-of-range values are a
// *entity.ValidationError naming the parameter.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{
		Page:  config.DefaultPage,
		Limit: config.DefaultLimit,
	}
	q := r.URL.Query()

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, &entity.ValidationError{Field: "page", Message: "page must be a positive integer"}
		}
		params.Page = page
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > config.MaxLimit {
			return params, &entity.ValidationError{
				Field:   "limit",
				Message: fmt.Sprintf("limit must be between 1 and %d", config.MaxLimit),
			}
		}
		params.Limit = limit
	}

	return params, nil
}
