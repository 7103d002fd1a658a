package ratelimit

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualClock struct{ t time.Time }

func (c *manualClock) now() time.Time          { return c.t }
func (c *manualClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(t *testing.T, cfg Config, m *Metrics) (*Limiter, *manualClock) {
	t.Helper()
	l, err := New(cfg, m)
	require.NoError(t, err)
	clock := &manualClock{t: time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)}
	l.now = clock.now
	return l, clock
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"zero rate", Config{RequestsPerSecond: 0, Burst: 1}, true},
		{"zero burst", Config{RequestsPerSecond: 1, Burst: 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestLimiter_BurstThenDeny(t *testing.T) {
	l, clock := newTestLimiter(t, Config{RequestsPerSecond: 2, Burst: 3}, nil)

	for i := 0; i < 3; i++ {
		d := l.Allow("10.0.0.1")
		require.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 2-i, d.Remaining)
		assert.Equal(t, 3, d.Limit)
	}

	d := l.Allow("10.0.0.1")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.InDelta(t, 500*time.Millisecond, d.RetryAfter, float64(time.Millisecond))

	// 他のクライアントには影響しない
	assert.True(t, l.Allow("10.0.0.2").Allowed)

	clock.advance(500 * time.Millisecond)
	assert.True(t, l.Allow("10.0.0.1").Allowed)
}

func TestLimiter_EvictsLeastRecentlySeen(t *testing.T) {
	l, clock := newTestLimiter(t, Config{RequestsPerSecond: 1, Burst: 1, MaxKeys: 2}, nil)

	l.Allow("a")
	clock.advance(time.Second)
	l.Allow("b")
	clock.advance(time.Second)
	l.Allow("c")

	assert.Equal(t, 2, l.Tracked())
	l.mu.Lock()
	_, hasA := l.buckets["a"]
	l.mu.Unlock()
	assert.False(t, hasA)
}

func TestLimiter_Cleanup(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	l, clock := newTestLimiter(t, Config{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute}, m)

	l.Allow("old")
	clock.advance(2 * time.Minute)
	l.Allow("fresh")
	l.Allow("fresh")

	assert.Equal(t, 1, l.Cleanup())
	assert.Equal(t, 1, l.Tracked())
	assert.Equal(t, float64(1), testutil.ToFloat64(m.tracked))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("allowed")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("denied")))
}

func TestMetrics_Registered(t *testing.T) {
	reg := prometheus.NewRegistry()
	l, _ := newTestLimiter(t, DefaultConfig(), NewMetrics(reg))
	l.Allow("192.0.2.1")

	families, err := reg.Gather()
	require.NoError(t, err)
	types := make(map[string]dto.MetricType, len(families))
	for _, mf := range families {
		types[mf.GetName()] = mf.GetType()
	}
	assert.Equal(t, dto.MetricType_COUNTER, types["newshub_rate_limit_requests_total"])
	assert.Equal(t, dto.MetricType_GAUGE, types["newshub_rate_limit_tracked_keys"])
}
