package notify

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"newshub/internal/domain/entity"
	"newshub/internal/handler/http/requestid"
)

const (
	circuitBreakerThreshold = 5
	circuitBreakerTimeout   = 5 * time.Minute
	workerPoolTimeout       = 5 * time.Second
	notificationTimeout     = 30 * time.Second
)

// Service dispatches live update notifications.
type Service interface {
	// NotifyLiveUpdate returns immediately; delivery happens in background
	// goroutines and failures are logged and counted, never returned.
	NotifyLiveUpdate(ctx context.Context, article *entity.Article, update *entity.LiveUpdate) error

	// GetChannelHealth reports the circuit breaker state of every channel.
	GetChannelHealth() []ChannelHealthStatus

	// Shutdown cancels in-flight sends and waits for them or for ctx.
	Shutdown(ctx context.Context) error
}

type ChannelHealthStatus struct {
	Name               string     `json:"name"`
	Enabled            bool       `json:"enabled"`
	CircuitBreakerOpen bool       `json:"circuit_breaker_open"`
	DisabledUntil      *time.Time `json:"disabled_until,omitempty"`
}

type service struct {
	channels      []Channel
	workerPool    chan struct{}
	channelHealth map[string]*channelHealth
	logger        *slog.Logger
	now           func() time.Time

	wg             sync.WaitGroup
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

type channelHealth struct {
	mu                  sync.Mutex
	consecutiveFailures int
	disabledUntil       time.Time
}

// NewService builds a dispatcher over channels with at most maxConcurrent
// sends in flight.
func NewService(channels []Channel, maxConcurrent int, logger *slog.Logger) Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	svc := &service{
		channels:       channels,
		workerPool:     make(chan struct{}, maxConcurrent),
		channelHealth:  make(map[string]*channelHealth, len(channels)),
		logger:         logger,
		now:            time.Now,
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
	}
	enabled := 0
	for _, ch := range channels {
		svc.channelHealth[ch.Name()] = &channelHealth{}
		if ch.IsEnabled() {
			enabled++
		}
	}
	channelsEnabled.Set(float64(enabled))
	return svc
}

func (s *service) NotifyLiveUpdate(ctx context.Context, article *entity.Article, update *entity.LiveUpdate) error {
	if article == nil || update == nil {
		s.logger.Warn("invalid notification input",
			slog.Bool("nil_article", article == nil),
			slog.Bool("nil_update", update == nil))
		return nil
	}
	if s.shutdownCtx.Err() != nil {
		for _, ch := range s.channels {
			if ch.IsEnabled() {
				recordDropped(ch.Name(), "shutdown")
			}
		}
		return nil
	}

	requestID := requestid.FromContext(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	dispatched := 0
	for _, ch := range s.channels {
		if !ch.IsEnabled() {
			continue
		}
		dispatched++
		s.wg.Add(1)
		go s.notifyChannel(requestID, ch, article, update)
	}

	if dispatched > 0 {
		s.logger.Info("dispatching live update notification",
			slog.String("request_id", requestID),
			slog.Int64("article_id", article.ID),
			slog.Int64("live_update_id", update.ID),
			slog.Int("channels", dispatched))
	}
	return nil
}

func (s *service) notifyChannel(requestID string, channel Channel, article *entity.Article, update *entity.LiveUpdate) {
	defer s.wg.Done()
	activeNotifications.Inc()
	defer activeNotifications.Dec()

	log := s.logger.With(
		slog.String("request_id", requestID),
		slog.String("channel", channel.Name()),
		slog.Int64("article_id", article.ID),
		slog.Int64("live_update_id", update.ID))

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic in notification channel",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	timer := time.NewTimer(workerPoolTimeout)
	select {
	case s.workerPool <- struct{}{}:
		timer.Stop()
		defer func() { <-s.workerPool }()
	case <-timer.C:
		log.Warn("notification dropped: worker pool full")
		recordDropped(channel.Name(), "pool_full")
		return
	case <-s.shutdownCtx.Done():
		timer.Stop()
		recordDropped(channel.Name(), "shutdown")
		return
	}

	health := s.channelHealth[channel.Name()]
	health.mu.Lock()
	if s.now().Before(health.disabledUntil) {
		until := health.disabledUntil
		health.mu.Unlock()
		log.Warn("channel disabled by circuit breaker", slog.Time("disabled_until", until))
		recordDropped(channel.Name(), "circuit_open")
		return
	}
	health.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.shutdownCtx, notificationTimeout)
	defer cancel()
	ctx = requestid.WithRequestID(ctx, requestID)

	notificationDispatchedTotal.WithLabelValues(channel.Name()).Inc()
	start := s.now()
	err := channel.Send(ctx, article, update)
	duration := s.now().Sub(start)
	recordResult(channel.Name(), err, duration)

	health.mu.Lock()
	if err != nil {
		health.consecutiveFailures++
		if health.consecutiveFailures >= circuitBreakerThreshold {
			health.disabledUntil = s.now().Add(circuitBreakerTimeout)
			health.consecutiveFailures = 0
			circuitBreakerOpenTotal.WithLabelValues(channel.Name()).Inc()
			log.Error("circuit breaker opened for channel", slog.Int("threshold", circuitBreakerThreshold))
		}
	} else {
		health.consecutiveFailures = 0
	}
	health.mu.Unlock()

	if err != nil {
		log.Warn("channel notification failed",
			slog.Duration("send_duration", duration),
			slog.Any("error", err))
		return
	}
	log.Info("channel notification sent", slog.Duration("send_duration", duration))
}

func (s *service) GetChannelHealth() []ChannelHealthStatus {
	now := s.now()
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		health := s.channelHealth[ch.Name()]
		status := ChannelHealthStatus{Name: ch.Name(), Enabled: ch.IsEnabled()}

		health.mu.Lock()
		if now.Before(health.disabledUntil) {
			until := health.disabledUntil
			status.CircuitBreakerOpen = true
			status.DisabledUntil = &until
		}
		health.mu.Unlock()

		statuses = append(statuses, status)
	}
	return statuses
}

func (s *service) Shutdown(ctx context.Context) error {
	s.shutdownCancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("notification service stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("notification service shutdown timed out")
		return ctx.Err()
	}
}
