package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/domain/entity"
	"newshub/internal/handler/http/requestid"
	"newshub/internal/infra/notifier"
)

const (
	timeout = 2 * time.Second
	tick    = 10 * time.Millisecond
)

type stubChannel struct {
	name    string
	enabled bool
	err     error
	block   chan struct{}

	mu         sync.Mutex
	calls      int
	requestIDs []string
}

func (c *stubChannel) Name() string    { return c.name }
func (c *stubChannel) IsEnabled() bool { return c.enabled }

func (c *stubChannel) Send(ctx context.Context, _ *entity.Article, _ *entity.LiveUpdate) error {
	c.mu.Lock()
	c.calls++
	c.requestIDs = append(c.requestIDs, requestid.FromContext(ctx))
	c.mu.Unlock()
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return c.err
}

func (c *stubChannel) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sample() (*entity.Article, *entity.LiveUpdate) {
	a := &entity.Article{ID: 2, Title: "Election night", Category: "politics", IsLive: true}
	u := &entity.LiveUpdate{ID: 9, ArticleID: 2, Heading: "Turnout", Content: "Polls close at ten", Timestamp: time.Now()}
	return a, u
}

/* ───────── dispatch ───────── */

func TestNotifyLiveUpdate_DispatchesToEnabledChannels(t *testing.T) {
	discord := &stubChannel{name: "discord", enabled: true}
	slack := &stubChannel{name: "slack", enabled: false}
	svc := NewService([]Channel{discord, slack}, 4, quietLogger())

	a, u := sample()
	ctx := requestid.WithRequestID(context.Background(), "req-123")
	require.NoError(t, svc.NotifyLiveUpdate(ctx, a, u))
	require.NoError(t, svc.Shutdown(context.Background()))

	assert.Equal(t, 1, discord.callCount())
	assert.Zero(t, slack.callCount())
	assert.Equal(t, []string{"req-123"}, discord.requestIDs)
}

func TestNotifyLiveUpdate_GeneratesRequestID(t *testing.T) {
	ch := &stubChannel{name: "discord", enabled: true}
	svc := NewService([]Channel{ch}, 1, quietLogger())

	a, u := sample()
	require.NoError(t, svc.NotifyLiveUpdate(context.Background(), a, u))
	require.NoError(t, svc.Shutdown(context.Background()))

	require.Len(t, ch.requestIDs, 1)
	assert.NotEmpty(t, ch.requestIDs[0])
}

func TestNotifyLiveUpdate_IgnoresNilInput(t *testing.T) {
	ch := &stubChannel{name: "discord", enabled: true}
	svc := NewService([]Channel{ch}, 1, quietLogger())

	a, u := sample()
	assert.NoError(t, svc.NotifyLiveUpdate(context.Background(), nil, u))
	assert.NoError(t, svc.NotifyLiveUpdate(context.Background(), a, nil))
	require.NoError(t, svc.Shutdown(context.Background()))
	assert.Zero(t, ch.callCount())
}

func TestNotifyLiveUpdate_ReturnsBeforeDelivery(t *testing.T) {
	ch := &stubChannel{name: "discord", enabled: true, block: make(chan struct{})}
	svc := NewService([]Channel{ch}, 1, quietLogger())

	a, u := sample()
	start := time.Now()
	require.NoError(t, svc.NotifyLiveUpdate(context.Background(), a, u))
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	assert.Eventually(t, func() bool { return ch.callCount() == 1 }, timeout, tick)
	close(ch.block)
	require.NoError(t, svc.Shutdown(context.Background()))
}

/* ───────── circuit breaker ───────── */

func TestNotifyLiveUpdate_CircuitBreakerOpensAfterThreshold(t *testing.T) {
	ch := &stubChannel{name: "slack", enabled: true, err: errors.New("boom")}
	svc := NewService([]Channel{ch}, 1, quietLogger())
	s := svc.(*service)

	a, u := sample()
	for i := 0; i < circuitBreakerThreshold; i++ {
		require.NoError(t, svc.NotifyLiveUpdate(context.Background(), a, u))
		s.wg.Wait()
	}
	assert.Equal(t, circuitBreakerThreshold, ch.callCount())

	health := svc.GetChannelHealth()
	require.Len(t, health, 1)
	assert.True(t, health[0].CircuitBreakerOpen)
	require.NotNil(t, health[0].DisabledUntil)

	// 遮断中は送信しない
	require.NoError(t, svc.NotifyLiveUpdate(context.Background(), a, u))
	s.wg.Wait()
	assert.Equal(t, circuitBreakerThreshold, ch.callCount())

	s.now = func() time.Time { return time.Now().Add(circuitBreakerTimeout + time.Second) }
	require.NoError(t, svc.NotifyLiveUpdate(context.Background(), a, u))
	s.wg.Wait()
	assert.Equal(t, circuitBreakerThreshold+1, ch.callCount())
}

func TestNotifyLiveUpdate_SuccessResetsFailures(t *testing.T) {
	ch := &stubChannel{name: "discord", enabled: true, err: errors.New("boom")}
	svc := NewService([]Channel{ch}, 1, quietLogger())
	s := svc.(*service)

	a, u := sample()
	for i := 0; i < circuitBreakerThreshold-1; i++ {
		require.NoError(t, svc.NotifyLiveUpdate(context.Background(), a, u))
		s.wg.Wait()
	}
	ch.err = nil
	require.NoError(t, svc.NotifyLiveUpdate(context.Background(), a, u))
	s.wg.Wait()

	assert.Zero(t, s.channelHealth["discord"].consecutiveFailures)
	assert.False(t, svc.GetChannelHealth()[0].CircuitBreakerOpen)
}

/* ───────── shutdown ───────── */

func TestShutdown_CancelsInFlightSends(t *testing.T) {
	ch := &stubChannel{name: "discord", enabled: true, block: make(chan struct{})}
	svc := NewService([]Channel{ch}, 1, quietLogger())

	a, u := sample()
	require.NoError(t, svc.NotifyLiveUpdate(context.Background(), a, u))
	assert.Eventually(t, func() bool { return ch.callCount() == 1 }, timeout, tick)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	require.NoError(t, svc.Shutdown(ctx))

	// 停止後の通知は破棄される
	require.NoError(t, svc.NotifyLiveUpdate(context.Background(), a, u))
	assert.Equal(t, 1, ch.callCount())
}

/* ───────── channels ───────── */

func TestNotifierChannel_Disabled(t *testing.T) {
	ch := NewDiscordChannel(notifier.DiscordConfig{Enabled: false})
	a, u := sample()

	assert.Equal(t, "discord", ch.Name())
	assert.False(t, ch.IsEnabled())
	assert.ErrorIs(t, ch.Send(context.Background(), a, u), ErrChannelDisabled)
}

func TestNotifierChannel_InvalidInput(t *testing.T) {
	ch := NewSlackChannel(notifier.SlackConfig{Enabled: true, WebhookURL: "https://hooks.slack.com/services/x", Timeout: time.Second})
	a, u := sample()

	assert.ErrorIs(t, ch.Send(context.Background(), nil, u), ErrInvalidArticle)
	assert.ErrorIs(t, ch.Send(context.Background(), a, nil), ErrInvalidUpdate)
}

func TestNotifierChannel_DeliversThroughWebhook(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ch := NewDiscordChannel(notifier.DiscordConfig{
		Enabled:    true,
		WebhookURL: srv.URL,
		Timeout:    time.Second,
		PublicURL:  "https://news.example.com",
	})
	a, u := sample()

	require.NoError(t, ch.Send(context.Background(), a, u))
	assert.Equal(t, int32(1), hits.Load())
}
