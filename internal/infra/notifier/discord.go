package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"newshub/internal/domain/entity"
)

type DiscordConfig struct {
	Enabled    bool
	WebhookURL string
	Timeout    time.Duration
	// PublicURL is the site root used to link embeds to the article page.
	PublicURL string
	// RetryDelay is the base backoff between attempts; zero means 5s.
	RetryDelay time.Duration
}

type DiscordNotifier struct {
	config  DiscordConfig
	webhook *webhook
}

// NewDiscordNotifier limits itself to 0.5 req/s with a burst of 3, which
// matches Discord's 30 requests per minute per webhook.
func NewDiscordNotifier(config DiscordConfig) *DiscordNotifier {
	delay := config.RetryDelay
	if delay <= 0 {
		delay = 5 * time.Second
	}
	return &DiscordNotifier{
		config: config,
		webhook: &webhook{
			service:     "Discord",
			url:         config.WebhookURL,
			httpClient:  &http.Client{Timeout: config.Timeout},
			limiter:     NewRateLimiter(0.5, 3),
			maxAttempts: 2,
			baseDelay:   delay,
		},
	}
}

type DiscordWebhookPayload struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

type DiscordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url,omitempty"`
	Color       int                `json:"color"`
	Footer      DiscordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp"`
}

type DiscordEmbedFooter struct {
	Text string `json:"text"`
}

const (
	maxTitleLength       = 256
	maxDescriptionLength = 4096

	// #DC3545, the live badge red
	discordLiveColor = 14431557
)

func (d *DiscordNotifier) buildEmbedPayload(article *entity.Article, update *entity.LiveUpdate) DiscordWebhookPayload {
	var desc strings.Builder
	fmt.Fprintf(&desc, "**%s**\n%s", update.Heading, update.Content)
	if update.SocialLink != nil {
		fmt.Fprintf(&desc, "\n%s", *update.SocialLink)
	}

	footer := "LIVE"
	if article.Category != "" {
		footer = article.Category + " • LIVE"
	}

	return DiscordWebhookPayload{
		Embeds: []DiscordEmbed{{
			Title:       clip(article.Title, maxTitleLength),
			Description: clip(desc.String(), maxDescriptionLength),
			URL:         ArticleLink(d.config.PublicURL, article.ID),
			Color:       discordLiveColor,
			Footer:      DiscordEmbedFooter{Text: footer},
			Timestamp:   update.Timestamp.UTC().Format(time.RFC3339),
		}},
	}
}

func (d *DiscordNotifier) NotifyLiveUpdate(ctx context.Context, article *entity.Article, update *entity.LiveUpdate) error {
	ctx = context.WithValue(ctx, requestIDKey, uuid.New().String())
	return d.webhook.deliver(ctx, d.buildEmbedPayload(article, update),
		slog.Int64("article_id", article.ID),
		slog.Int64("live_update_id", update.ID))
}
