package live

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// DefaultRefreshInterval is the polling cadence for live content (300000 ms).
const DefaultRefreshInterval = 5 * time.Minute

// RefreshFunc performs one refresh. A returned error is logged and the schedule continues.
type RefreshFunc func(ctx context.Context) error

// Scheduler starts fixed-cadence refresh loops.
type Scheduler struct {
	name   string
	clock  Clock
	logger *slog.Logger
}

// NewScheduler creates a scheduler. name labels logs and metrics.
// A nil clock uses RealClock and a nil logger uses slog.Default().
func NewScheduler(name string, clock Clock, logger *slog.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{name: name, clock: clock, logger: logger}
}

// Handle controls one running refresh loop.
type Handle struct {
	stop     chan struct{}
	loopDone chan struct{}
	once     sync.Once
	inFlight sync.WaitGroup
}

// Start invokes fn every interval until the handle is cancelled.
// Each tick runs fn in its own goroutine: ticks are not serialized, so a slow
// refresh can overlap the next one. ctx is handed to every invocation and is not
// cancelled by Cancel, so in-flight refreshes run to completion.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration, fn RefreshFunc) *Handle {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	h := &Handle{
		stop:     make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	ticker := s.clock.NewTicker(interval)
	activeSchedulers.Inc()

	s.logger.Debug("live refresh scheduler started",
		slog.String("view", s.name),
		slog.Duration("interval", interval))

	go func() {
		defer close(h.loopDone)
		defer activeSchedulers.Dec()
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C():
				h.inFlight.Add(1)
				go s.tick(ctx, h, fn)
			}
		}
	}()
	return h
}

func (s *Scheduler) tick(ctx context.Context, h *Handle, fn RefreshFunc) {
	defer h.inFlight.Done()
	refreshInFlight.WithLabelValues(s.name).Inc()
	defer refreshInFlight.WithLabelValues(s.name).Dec()

	defer func() {
		if r := recover(); r != nil {
			refreshTicksTotal.WithLabelValues(s.name, "failure").Inc()
			s.logger.Error("panic in live refresh",
				slog.String("view", s.name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
		}
	}()

	start := s.clock.Now()
	if err := fn(ctx); err != nil {
		refreshTicksTotal.WithLabelValues(s.name, "failure").Inc()
		s.logger.Warn("live refresh failed",
			slog.String("view", s.name),
			slog.Any("error", err))
		return
	}
	refreshTicksTotal.WithLabelValues(s.name, "success").Inc()
	s.logger.Debug("live refresh completed",
		slog.String("view", s.name),
		slog.Duration("duration", s.clock.Now().Sub(start)))
}

// Cancel stops the loop. It is idempotent, and once it returns no further
// refresh will start. Refreshes already running are left alone.
func (h *Handle) Cancel() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.loopDone
}

// Wait blocks until the loop has been cancelled and every started refresh has returned.
func (h *Handle) Wait() {
	if h == nil {
		return
	}
	<-h.loopDone
	h.inFlight.Wait()
}
