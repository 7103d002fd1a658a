// Package article provides use cases for managing article entities.
// It implements business logic for creating, updating, deleting and querying
// articles, including content sanitizing and summary drafting.
package article

import (
	"errors"
	"fmt"

	"newshub/internal/domain/entity"
)

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that the requested article was not found.
	// It matches entity.ErrNotFound under errors.Is.
	ErrArticleNotFound = fmt.Errorf("article: %w", entity.ErrNotFound)

	// ErrInvalidArticleID indicates that the provided article ID is invalid.
	// Article IDs must be positive integers.
	ErrInvalidArticleID = fmt.Errorf("invalid article ID: %w", entity.ErrInvalidInput)

	// ErrEmptyKeyword is returned by Search when the keyword is blank.
	ErrEmptyKeyword = errors.New("search keyword is required")
)
