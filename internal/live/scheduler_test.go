package live

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

/* ───────────────────────────── Start / Cancel ───────────────────────────── */

func TestScheduler_CancelBeforeFirstTick(t *testing.T) {
	clk := NewFakeClock(epoch)
	s := NewScheduler("test", clk, discardLogger())

	var calls atomic.Int32
	h := s.Start(context.Background(), time.Minute, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	h.Cancel()
	clk.Advance(10 * time.Minute)
	h.Wait()

	assert.Equal(t, int32(0), calls.Load())
	assert.Equal(t, 0, clk.Tickers(), "ticker must be stopped on cancel")
}

func TestScheduler_InvokesOncePerElapsedInterval(t *testing.T) {
	tests := []struct {
		name    string
		advance []time.Duration
		want    int32
	}{
		{name: "just short of first tick", advance: []time.Duration{DefaultRefreshInterval - time.Millisecond}, want: 0},
		{name: "exactly one interval", advance: []time.Duration{DefaultRefreshInterval}, want: 1},
		{name: "three intervals in one jump", advance: []time.Duration{3*DefaultRefreshInterval + time.Minute}, want: 3},
		{name: "stepwise", advance: []time.Duration{2 * time.Minute, 4 * time.Minute, 5 * time.Minute}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clk := NewFakeClock(epoch)
			s := NewScheduler("test", clk, discardLogger())

			var calls atomic.Int32
			h := s.Start(context.Background(), 0, func(context.Context) error {
				calls.Add(1)
				return nil
			})
			for _, d := range tt.advance {
				clk.Advance(d)
			}
			h.Cancel()
			h.Wait()

			assert.Equal(t, tt.want, calls.Load())
		})
	}
}

func TestScheduler_FailedTickDoesNotStopSchedule(t *testing.T) {
	clk := NewFakeClock(epoch)
	s := NewScheduler("test", clk, discardLogger())

	var calls atomic.Int32
	h := s.Start(context.Background(), time.Minute, func(context.Context) error {
		if calls.Add(1) == 1 {
			return errors.New("upstream unavailable")
		}
		return nil
	})
	clk.Advance(3 * time.Minute)
	h.Cancel()
	h.Wait()

	assert.Equal(t, int32(3), calls.Load())
}

func TestScheduler_PanicIsRecovered(t *testing.T) {
	clk := NewFakeClock(epoch)
	s := NewScheduler("test", clk, discardLogger())

	var calls atomic.Int32
	h := s.Start(context.Background(), time.Minute, func(context.Context) error {
		if calls.Add(1) == 1 {
			panic("boom")
		}
		return nil
	})
	clk.Advance(2 * time.Minute)
	h.Cancel()
	h.Wait()

	assert.Equal(t, int32(2), calls.Load())
}

func TestScheduler_OverlappingTicksAreNotSerialized(t *testing.T) {
	clk := NewFakeClock(epoch)
	s := NewScheduler("test", clk, discardLogger())

	release := make(chan struct{})
	var running atomic.Int32
	h := s.Start(context.Background(), time.Minute, func(context.Context) error {
		running.Add(1)
		<-release
		return nil
	})

	clk.Advance(2 * time.Minute)
	require.Eventually(t, func() bool { return running.Load() == 2 },
		time.Second, 5*time.Millisecond, "second tick must start while the first is still running")

	h.Cancel()
	close(release)
	h.Wait()
}

func TestScheduler_CancelIsIdempotent(t *testing.T) {
	clk := NewFakeClock(epoch)
	h := NewScheduler("test", clk, discardLogger()).Start(context.Background(), time.Minute,
		func(context.Context) error { return nil })

	h.Cancel()
	h.Cancel()

	var nilHandle *Handle
	nilHandle.Cancel()
	nilHandle.Wait()
}

func TestScheduler_RealClock(t *testing.T) {
	s := NewScheduler("real", nil, discardLogger())

	var calls atomic.Int32
	h := s.Start(context.Background(), 5*time.Millisecond, func(context.Context) error {
		calls.Add(1)
		return nil
	})
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	h.Cancel()
	h.Wait()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no refresh may start after Cancel returns")
}
