package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"newshub/internal/resilience/circuitbreaker"
	"newshub/internal/resilience/retry"
	"newshub/internal/utils/text"
)

// caller runs one provider request through the breaker and the retry loop
// and records the outcome.
type caller struct {
	provider string
	cfg      Config
	breaker  *circuitbreaker.CircuitBreaker
	retry    retry.Config
	metrics  MetricsRecorder
	logger   *slog.Logger
	send     func(ctx context.Context, prompt string) (string, error)
}

func (c *caller) summarize(ctx context.Context, body string) (string, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	requestID := uuid.NewString()
	if n := text.CountRunes(body); n > maxInputRunes {
		body = string([]rune(body)[:maxInputRunes]) + "\n(truncated)"
		c.logger.Warn("summary input truncated",
			slog.String("provider", c.provider),
			slog.String("request_id", requestID),
			slog.Int("original_length", n))
	}
	prompt := buildPrompt(c.cfg, body)

	var summary string
	err := retry.WithBackoff(ctx, c.retry, func() error {
		start := time.Now()
		out, err := circuitbreaker.Do(c.breaker, func() (string, error) {
			return c.send(ctx, prompt)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				c.logger.Warn("summarizer circuit open",
					slog.String("provider", c.provider),
					slog.String("request_id", requestID))
			}
			return err
		}
		summary = out
		c.record(ctx, requestID, summary, time.Since(start))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s summarize: %w", c.provider, err)
	}
	return summary, nil
}

func (c *caller) record(ctx context.Context, requestID, summary string, d time.Duration) {
	length := text.CountRunes(summary)
	within := length <= c.cfg.CharacterLimit
	c.metrics.Observe(c.provider, length, within, d)

	c.logger.InfoContext(ctx, "summary generated",
		slog.String("provider", c.provider),
		slog.String("request_id", requestID),
		slog.Int("summary_length", length),
		slog.Int("character_limit", c.cfg.CharacterLimit),
		slog.Duration("duration", d))
	if !within {
		c.logger.WarnContext(ctx, "summary exceeds character limit",
			slog.String("provider", c.provider),
			slog.String("request_id", requestID),
			slog.Int("excess", length-c.cfg.CharacterLimit))
	}
}

// statusError wraps a provider error carrying an HTTP status so that
// retry.IsRetryable can classify it.
func statusError(status int, err error) error {
	if status == 0 {
		return err
	}
	return errors.Join(&retry.HTTPError{StatusCode: status, Message: err.Error()}, err)
}
