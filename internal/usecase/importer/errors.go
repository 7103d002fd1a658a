// Package importer pulls items from RSS and Atom feeds into the article store.
package importer

import "errors"

var (
	ErrFeedFetchFailed   = errors.New("failed to fetch feed")
	ErrInvalidFeedFormat = errors.New("invalid feed format")
	ErrInvalidFeedURL    = errors.New("invalid feed URL")
	ErrPrivateIP         = errors.New("feed URL resolves to a private address")
)
