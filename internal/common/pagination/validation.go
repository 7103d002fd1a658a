package pagination

import (
	"fmt"

	"newshub/internal/domain/entity"
)

func (p Params) Validate(config Config) error {
	if p.Page < 1 {
		return &entity.ValidationError{Field: "page", Message: "page must be a positive integer"}
	}
	if p.Limit < 1 || p.Limit > config.MaxLimit {
		return &entity.ValidationError{Field: "limit", Message: fmt.Sprintf("limit must be between 1 and %d", config.MaxLimit)}
	}
	return nil
}

// WithDefaults fills zero values from config and caps the limit.
func (p Params) WithDefaults(config Config) Params {
	if p.Page <= 0 {
		p.Page = config.DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = config.DefaultLimit
	}
	if p.Limit > config.MaxLimit {
		p.Limit = config.MaxLimit
	}
	return p
}
