package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// webhook posts JSON payloads to one incoming webhook URL.
type webhook struct {
	service     string
	url         string
	httpClient  *http.Client
	limiter     *RateLimiter
	maxAttempts int
	baseDelay   time.Duration
}

// post sends one request. Transport errors are stripped of the URL, which
// carries the webhook secret.
func (w *webhook) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: invalid webhook url", w.service)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("execute %s request: %w", w.service, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return classify(w.service, resp, respBody)
}

// deliver waits for the rate limiter and retries. A 429 sleeps for the
// advertised retry-after; 5xx and network errors back off linearly.
func (w *webhook) deliver(ctx context.Context, payload any, logAttrs ...any) error {
	requestID, _ := ctx.Value(requestIDKey).(string)
	log := slog.With(append([]any{slog.String("request_id", requestID), slog.String("service", w.service)}, logAttrs...)...)

	if err := w.limiter.Allow(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err := w.post(ctx, payload)
		if err == nil {
			log.Info("webhook notification sent", slog.Int("attempt", attempt))
			return nil
		}
		lastErr = err

		var wait time.Duration
		var rateLimitErr *RateLimitError
		switch {
		case errors.As(err, &rateLimitErr):
			wait = rateLimitErr.RetryAfter
			log.Warn("webhook rate limited, backing off",
				slog.Duration("retry_after", wait),
				slog.Int("attempt", attempt))
		case !isRetryableError(err):
			log.Error("webhook notification rejected",
				slog.Any("error", err),
				slog.Int("attempt", attempt))
			return err
		default:
			wait = w.baseDelay * time.Duration(attempt)
			log.Warn("webhook request failed, retrying",
				slog.Any("error", err),
				slog.Int("attempt", attempt),
				slog.Duration("delay", wait))
		}
		if attempt == w.maxAttempts {
			break
		}

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("context canceled during retry backoff: %w", ctx.Err())
		}
	}

	return fmt.Errorf("%s notification failed after %d attempts: %w", w.service, w.maxAttempts, lastErr)
}
