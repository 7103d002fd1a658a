package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newshub/internal/infra/notifier"
	"newshub/internal/usecase/notify"
	"newshub/pkg/config"
)

// ChannelHealthResponse is the body of GET /health/channels.
type ChannelHealthResponse struct {
	Healthy  bool                         `json:"healthy"`
	Channels []notify.ChannelHealthStatus `json:"channels"`
}

// channelHealthHandler answers 503 while any enabled channel has its
// circuit breaker open.
func channelHealthHandler(svc notify.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		statuses := svc.GetChannelHealth()
		healthy := true
		for _, s := range statuses {
			if s.Enabled && s.CircuitBreakerOpen {
				healthy = false
			}
		}
		if statuses == nil {
			statuses = []notify.ChannelHealthStatus{}
		}

		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(ChannelHealthResponse{Healthy: healthy, Channels: statuses})
	}
}

// buildChannels returns the enabled notification channels.
func buildChannels(logger *slog.Logger) []notify.Channel {
	publicURL := config.GetEnvString("PUBLIC_URL", "")
	var channels []notify.Channel

	if cfg, ok := loadDiscordConfig(logger, publicURL); ok {
		channels = append(channels, notify.NewDiscordChannel(cfg))
		logger.Info("Discord channel initialized")
	} else {
		logger.Info("Discord channel disabled")
	}
	if cfg, ok := loadSlackConfig(logger, publicURL); ok {
		channels = append(channels, notify.NewSlackChannel(cfg))
		logger.Info("Slack channel initialized")
	} else {
		logger.Info("Slack channel disabled")
	}
	return channels
}

// loadDiscordConfig reads DISCORD_ENABLED and DISCORD_WEBHOOK_URL. A webhook
// outside https://discord.com/api/webhooks/ disables the channel.
func loadDiscordConfig(logger *slog.Logger, publicURL string) (notifier.DiscordConfig, bool) {
	if !config.GetEnvBool("DISCORD_ENABLED", false) {
		return notifier.DiscordConfig{}, false
	}
	webhookURL := config.GetEnvString("DISCORD_WEBHOOK_URL", "")
	if err := validateWebhook(webhookURL, "discord.com", "/api/webhooks/"); err != "" {
		logger.Warn("invalid Discord webhook, disabling notifications", slog.String("reason", err))
		return notifier.DiscordConfig{}, false
	}
	return notifier.DiscordConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    config.GetEnvDuration("DISCORD_TIMEOUT", 30*time.Second),
		PublicURL:  publicURL,
	}, true
}

// loadSlackConfig reads SLACK_ENABLED and SLACK_WEBHOOK_URL. A webhook
// outside https://hooks.slack.com/services/ disables the channel.
func loadSlackConfig(logger *slog.Logger, publicURL string) (notifier.SlackConfig, bool) {
	if !config.GetEnvBool("SLACK_ENABLED", false) {
		return notifier.SlackConfig{}, false
	}
	webhookURL := config.GetEnvString("SLACK_WEBHOOK_URL", "")
	if err := validateWebhook(webhookURL, "hooks.slack.com", "/services/"); err != "" {
		logger.Warn("invalid Slack webhook, disabling notifications", slog.String("reason", err))
		return notifier.SlackConfig{}, false
	}
	return notifier.SlackConfig{
		Enabled:    true,
		WebhookURL: webhookURL,
		Timeout:    config.GetEnvDuration("SLACK_TIMEOUT", 30*time.Second),
		PublicURL:  publicURL,
	}, true
}

// validateWebhook returns a reason the URL is unusable, or "".
func validateWebhook(raw, host, pathPrefix string) string {
	if raw == "" {
		return "webhook URL is empty"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "webhook URL is malformed"
	}
	switch {
	case u.Scheme != "https":
		return "webhook URL must use https"
	case u.Host != host:
		return "unexpected webhook host " + u.Host
	case !strings.HasPrefix(u.Path, pathPrefix):
		return "unexpected webhook path"
	}
	return ""
}
