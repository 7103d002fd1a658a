package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"newshub/internal/domain/entity"
)

type SlackConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
	PublicURL  string
	RetryDelay time.Duration
}

type SlackNotifier struct {
	config  SlackConfig
	webhook *webhook
}

// NewSlackNotifier limits itself to Slack's one message per second.
func NewSlackNotifier(config SlackConfig) *SlackNotifier {
	delay := config.RetryDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	return &SlackNotifier{
		config: config,
		webhook: &webhook{
			service:     "Slack",
			url:         config.WebhookURL,
			httpClient:  &http.Client{Timeout: config.Timeout},
			limiter:     NewRateLimiter(1.0, 1),
			maxAttempts: 2,
			baseDelay:   delay,
		},
	}
}

// SlackWebhookPayload uses Block Kit; Text is the notification fallback.
type SlackWebhookPayload struct {
	Text   string       `json:"text"`
	Blocks []SlackBlock `json:"blocks"`
}

type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

const (
	maxSectionTextLength = 3000
	maxContextTextLength = 2000
	maxFallbackLength    = 150
)

func (s *SlackNotifier) buildBlockKitPayload(article *entity.Article, update *entity.LiveUpdate) SlackWebhookPayload {
	title := fmt.Sprintf("*%s*", article.Title)
	if link := ArticleLink(s.config.PublicURL, article.ID); link != "" {
		title = fmt.Sprintf("*<%s|%s>*", link, article.Title)
	}
	section := fmt.Sprintf("%s\n\n*%s*\n%s", title, update.Heading, update.Content)

	footer := fmt.Sprintf("LIVE • %s", update.Timestamp.UTC().Format(time.RFC3339))
	if article.Category != "" {
		footer = article.Category + " • " + footer
	}
	if update.SocialLink != nil {
		footer += " • " + *update.SocialLink
	}

	return SlackWebhookPayload{
		Text: clip(fmt.Sprintf("LIVE %s: %s", article.Title, update.Heading), maxFallbackLength),
		Blocks: []SlackBlock{
			{
				Type: "section",
				Text: &SlackTextObject{Type: "mrkdwn", Text: clip(section, maxSectionTextLength)},
			},
			{
				Type:     "context",
				Elements: []SlackTextObject{{Type: "mrkdwn", Text: clip(footer, maxContextTextLength)}},
			},
		},
	}
}

func (s *SlackNotifier) NotifyLiveUpdate(ctx context.Context, article *entity.Article, update *entity.LiveUpdate) error {
	ctx = context.WithValue(ctx, requestIDKey, uuid.New().String())
	return s.webhook.deliver(ctx, s.buildBlockKitPayload(article, update),
		slog.Int64("article_id", article.ID),
		slog.Int64("live_update_id", update.ID))
}
