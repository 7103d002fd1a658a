// Package notifier delivers live update alerts to chat webhooks (Discord,
// Slack). Each notifier rate limits itself and retries transient failures.
package notifier

import (
	"context"
	"fmt"
	"strings"

	"newshub/internal/domain/entity"
)

// Notifier announces a new live update on an article.
type Notifier interface {
	NotifyLiveUpdate(ctx context.Context, article *entity.Article, update *entity.LiveUpdate) error
}

// ArticleLink returns the public page of an article, or "" without a base URL.
func ArticleLink(publicURL string, articleID int64) string {
	base := strings.TrimRight(strings.TrimSpace(publicURL), "/")
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/articles/%d", base, articleID)
}
