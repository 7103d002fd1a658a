package notifier

import (
	"context"

	"newshub/internal/domain/entity"
)

// NoOpNotifier stands in for a disabled channel.
type NoOpNotifier struct{}

func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

func (n *NoOpNotifier) NotifyLiveUpdate(ctx context.Context, article *entity.Article, update *entity.LiveUpdate) error {
	return nil
}
