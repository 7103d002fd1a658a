package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"newshub/internal/datasource"
	"newshub/internal/domain/entity"
	"newshub/internal/live"
	"newshub/internal/usecase/notify"
)

// LiveFeedJob polls the global live feed and notifies channels when a new
// head update appears. The first successful run only seeds the snapshot.
type LiveFeedJob struct {
	Source   datasource.DataSource
	Notifier notify.Service
	Metrics  *Metrics
	Health   *HealthServer
	Logger   *slog.Logger
	Limit    int
	Timeout  time.Duration

	mu     sync.Mutex
	prev   []*entity.LiveUpdate
	seeded bool
}

// RunResult describes one run.
type RunResult struct {
	Fetched  int
	Seeded   bool
	NewHead  *entity.LiveUpdate
	Notified bool
}

// Run performs one refresh. Overlapping calls are serialized.
func (j *LiveFeedJob) Run(ctx context.Context) (RunResult, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if j.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.Timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := j.run(ctx, logger)
	status := StatusSuccess
	if err != nil {
		status = StatusFailure
	}
	if j.Metrics != nil {
		j.Metrics.recordRun(status, time.Since(start).Seconds())
	}
	if err == nil && j.Health != nil {
		j.Health.MarkRun(time.Now())
	}
	return res, err
}

func (j *LiveFeedJob) run(ctx context.Context, logger *slog.Logger) (RunResult, error) {
	next, err := j.Source.ListLiveUpdates(ctx, datasource.LiveUpdateQuery{Limit: j.Limit})
	if err != nil {
		logger.Warn("live feed refresh failed, keeping previous snapshot", slog.Any("error", err))
		return RunResult{}, fmt.Errorf("list live updates: %w", err)
	}
	if j.Metrics != nil {
		j.Metrics.UpdatesFetched.Add(float64(len(next)))
	}

	merged := live.Merge(j.prev, next)
	j.prev = merged.Items
	res := RunResult{Fetched: len(next)}

	if !j.seeded {
		j.seeded = true
		res.Seeded = true
		logger.Info("live feed seeded", slog.Int("updates", len(next)))
		return res, nil
	}
	if !merged.HasNew {
		return res, nil
	}

	head := merged.Items[0]
	res.NewHead = head
	if j.Metrics != nil {
		j.Metrics.NewHeadsTotal.Inc()
	}
	logger.Info("new live update",
		slog.Int64("live_update_id", head.ID),
		slog.Int64("article_id", head.ArticleID))

	if j.Notifier == nil {
		return res, nil
	}
	art, err := j.Source.GetArticle(ctx, head.ArticleID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			logger.Info("skipping notification for orphaned live update",
				slog.Int64("live_update_id", head.ID),
				slog.Int64("article_id", head.ArticleID))
			return res, nil
		}
		logger.Warn("article lookup failed, notification skipped",
			slog.Int64("article_id", head.ArticleID),
			slog.Any("error", err))
		return res, nil
	}
	if err := j.Notifier.NotifyLiveUpdate(ctx, art, head); err != nil {
		logger.Warn("notification dispatch failed", slog.Any("error", err))
		return res, nil
	}
	res.Notified = true
	return res, nil
}
