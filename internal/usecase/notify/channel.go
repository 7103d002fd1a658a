// Package notify fans live update alerts out to the configured chat channels
// without blocking the caller. Each channel has its own circuit breaker.
package notify

import (
	"context"

	"newshub/internal/domain/entity"
	"newshub/internal/infra/notifier"
)

// Channel is one delivery target. Implementations must be safe for
// concurrent use and must honour ctx cancellation.
type Channel interface {
	// Name is the lowercase identifier used in logs, metrics and health output.
	Name() string
	IsEnabled() bool
	Send(ctx context.Context, article *entity.Article, update *entity.LiveUpdate) error
}

// NotifierChannel adapts an infra notifier to a Channel.
type NotifierChannel struct {
	name     string
	notifier notifier.Notifier
	enabled  bool
}

func NewDiscordChannel(config notifier.DiscordConfig) *NotifierChannel {
	var n notifier.Notifier = notifier.NewNoOpNotifier()
	if config.Enabled {
		n = notifier.NewDiscordNotifier(config)
	}
	return &NotifierChannel{name: "discord", notifier: n, enabled: config.Enabled}
}

func NewSlackChannel(config notifier.SlackConfig) *NotifierChannel {
	var n notifier.Notifier = notifier.NewNoOpNotifier()
	if config.Enabled {
		n = notifier.NewSlackNotifier(config)
	}
	return &NotifierChannel{name: "slack", notifier: n, enabled: config.Enabled}
}

func (c *NotifierChannel) Name() string    { return c.name }
func (c *NotifierChannel) IsEnabled() bool { return c.enabled }

func (c *NotifierChannel) Send(ctx context.Context, article *entity.Article, update *entity.LiveUpdate) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if article == nil {
		return ErrInvalidArticle
	}
	if update == nil {
		return ErrInvalidUpdate
	}
	return c.notifier.NotifyLiveUpdate(ctx, article, update)
}
