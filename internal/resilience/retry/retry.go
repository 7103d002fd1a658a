// Package retry re-runs transient failures with exponential backoff and jitter.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sony/gobreaker"

	"newshub/internal/observability/logging"
)

type Config struct {
	// MaxAttempts counts the first call too.
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	// JitterFraction adds up to this share of each delay (0 to 1).
	JitterFraction float64
}

func DefaultConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   time.Second,
		MaxDelay:       30 * time.Second,
		Multiplier:     2,
		JitterFraction: 0.1,
	}
}

// RemoteAPIConfig keeps the whole loop well inside one refresh interval.
func RemoteAPIConfig() Config {
	return Config{
		MaxAttempts:    3,
		InitialDelay:   250 * time.Millisecond,
		MaxDelay:       2 * time.Second,
		Multiplier:     2,
		JitterFraction: 0.2,
	}
}

// SummarizerConfig is slower: LLM providers rate limit aggressively.
func SummarizerConfig() Config {
	c := DefaultConfig()
	c.InitialDelay = 2 * time.Second
	c.MaxDelay = 10 * time.Second
	return c
}

func FeedFetchConfig() Config {
	c := DefaultConfig()
	c.MaxAttempts = 4
	c.MaxDelay = 15 * time.Second
	return c
}

// WithBackoff calls fn until it succeeds, fails permanently, runs out of
// attempts or ctx ends. A server-supplied Retry-After longer than the computed
// delay (but within MaxDelay) is honoured.
func WithBackoff(ctx context.Context, cfg Config, fn func() error) error {
	logger := logging.FromContext(ctx)
	b := backoff{cfg: cfg, next: cfg.InitialDelay}

	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			if attempt > 1 {
				logger.Info("operation succeeded after retry", slog.Int("attempt", attempt))
			}
			return nil
		}
		if !IsRetryable(err) {
			return err
		}
		if attempt >= cfg.MaxAttempts {
			return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
		}

		wait := b.delay(err)
		logger.Warn("operation failed, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", cfg.MaxAttempts),
			slog.Duration("delay", wait),
			slog.Any("error", err))

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry aborted: %w", errors.Join(ctx.Err(), err))
		}
	}
}

type backoff struct {
	cfg  Config
	next time.Duration
}

// delay returns the wait before the next attempt and grows the base delay.
func (b *backoff) delay(err error) time.Duration {
	d := addJitter(b.next, b.cfg.JitterFraction)

	grown := time.Duration(float64(b.next) * b.cfg.Multiplier)
	if b.cfg.MaxDelay > 0 && grown > b.cfg.MaxDelay {
		grown = b.cfg.MaxDelay
	}
	b.next = grown

	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > d {
		d = httpErr.RetryAfter
		if b.cfg.MaxDelay > 0 && d > b.cfg.MaxDelay {
			d = b.cfg.MaxDelay
		}
	}
	return d
}

// IsRetryable reports whether err is transient: network timeouts, refused or
// reset connections, and HTTP 408, 429 and 5xx. Context errors and breaker
// rejections are final.
func IsRetryable(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests):
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Temporary()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	for _, errno := range []syscall.Errno{syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.ETIMEDOUT, syscall.ENETUNREACH} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	StatusCode int
	Message    string
	// RetryAfter is parsed from the Retry-After header, zero when absent.
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Temporary reports 408, 429 and 5xx.
func (e *HTTPError) Temporary() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		(e.StatusCode >= 500 && e.StatusCode < 600)
}

// ParseRetryAfter reads a Retry-After value in delay-seconds or HTTP-date
// form. Anything unparsable or in the past gives zero.
func ParseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}

func addJitter(d time.Duration, fraction float64) time.Duration {
	if fraction <= 0 {
		return d
	}
	fraction = min(fraction, 1)
	// #nosec G404 -- jitter does not need cryptographic randomness
	return d + time.Duration(rand.Float64()*float64(d)*fraction)
}
