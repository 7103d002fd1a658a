// Package ratelimit limits requests per client key with token buckets.
//
// Every key (usually a client IP) gets its own bucket holding up to Burst
// tokens, refilled at RequestsPerSecond. Buckets live in memory; the number
// of tracked keys is capped and idle keys are dropped by Cleanup.
package ratelimit

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Config struct {
	RequestsPerSecond float64
	Burst             int
	// MaxKeys bounds memory. When full, the least recently seen key is evicted.
	MaxKeys int
	// IdleTTL is how long an untouched bucket survives Cleanup.
	IdleTTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 10,
		Burst:             20,
		MaxKeys:           10000,
		IdleTTL:           10 * time.Minute,
	}
}

// Validate rejects limits that would block everything.
func (c Config) Validate() error {
	if c.RequestsPerSecond <= 0 {
		return errors.New("ratelimit: requests per second must be positive")
	}
	if c.Burst < 1 {
		return errors.New("ratelimit: burst must be at least 1")
	}
	return nil
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter is set on denials: the wait until one token is available.
	RetryAfter time.Duration
}

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

type Limiter struct {
	cfg     Config
	metrics *Metrics
	now     func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
}

// New builds a limiter. metrics may be nil.
func New(cfg Config, metrics *Metrics) (*Limiter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	def := DefaultConfig()
	if cfg.MaxKeys <= 0 {
		cfg.MaxKeys = def.MaxKeys
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = def.IdleTTL
	}
	return &Limiter{
		cfg:     cfg,
		metrics: metrics,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}, nil
}

// Allow takes one token from key's bucket.
func (l *Limiter) Allow(key string) Decision {
	now := l.now()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= l.cfg.MaxKeys {
			l.evictOldestLocked()
		}
		b = &bucket{lim: rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst)}
		l.buckets[key] = b
	}
	b.seen = now
	allowed := b.lim.AllowN(now, 1)
	tokens := b.lim.TokensAt(now)
	tracked := len(l.buckets)
	l.mu.Unlock()

	d := Decision{
		Allowed:   allowed,
		Limit:     l.cfg.Burst,
		Remaining: max(0, int(math.Floor(tokens))),
	}
	if !allowed {
		wait := (1 - tokens) / l.cfg.RequestsPerSecond
		d.RetryAfter = time.Duration(wait * float64(time.Second))
	}
	l.metrics.observe(allowed, tracked)
	return d
}

// evictOldestLocked is linear in the number of keys; it only runs when the
// table is full.
func (l *Limiter) evictOldestLocked() {
	var (
		oldestKey string
		oldest    time.Time
	)
	for k, b := range l.buckets {
		if oldestKey == "" || b.seen.Before(oldest) {
			oldestKey, oldest = k, b.seen
		}
	}
	delete(l.buckets, oldestKey)
}

// Cleanup drops buckets idle for longer than IdleTTL and returns how many
// were removed.
func (l *Limiter) Cleanup() int {
	cutoff := l.now().Add(-l.cfg.IdleTTL)

	l.mu.Lock()
	removed := 0
	for k, b := range l.buckets {
		if b.seen.Before(cutoff) {
			delete(l.buckets, k)
			removed++
		}
	}
	tracked := len(l.buckets)
	l.mu.Unlock()

	l.metrics.setTracked(tracked)
	return removed
}

// Tracked reports the number of keys with a bucket.
func (l *Limiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (l *Limiter) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}
