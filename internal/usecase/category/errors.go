// Package category provides use cases for the category navigation: CRUD,
// slug lookup and bulk reordering.
package category

import (
	"fmt"

	"newshub/internal/domain/entity"
)

var (
	// ErrCategoryNotFound matches entity.ErrNotFound under errors.Is.
	ErrCategoryNotFound = fmt.Errorf("category: %w", entity.ErrNotFound)

	ErrInvalidCategoryID = fmt.Errorf("invalid category ID: %w", entity.ErrInvalidInput)
)
