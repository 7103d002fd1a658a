// Package liveupdate provides use cases for the timestamped notes attached
// to live articles, including the demo update generator.
package liveupdate

import (
	"fmt"

	"newshub/internal/domain/entity"
)

var (
	// ErrLiveUpdateNotFound matches entity.ErrNotFound under errors.Is.
	ErrLiveUpdateNotFound = fmt.Errorf("live update: %w", entity.ErrNotFound)
	ErrArticleNotFound    = fmt.Errorf("article: %w", entity.ErrNotFound)

	ErrInvalidLiveUpdateID = fmt.Errorf("invalid live update ID: %w", entity.ErrInvalidInput)
)
