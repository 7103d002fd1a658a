package live

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newshub/internal/domain/entity"
)

// scriptedFetch returns the next scripted response per call; the last one repeats.
type scriptedFetch struct {
	mu        sync.Mutex
	responses []fetchResult
	calls     int
}

type fetchResult struct {
	items []*entity.LiveUpdate
	err   error
}

func (s *scriptedFetch) fetch(context.Context) ([]*entity.LiveUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.responses[min(s.calls, len(s.responses)-1)]
	s.calls++
	return r.items, r.err
}

func (s *scriptedFetch) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestView(clk *FakeClock, f FetchFunc[*entity.LiveUpdate], eligible func() bool) *View[*entity.LiveUpdate] {
	return NewView(f, ViewConfig{
		Name:     "article-live-updates",
		Interval: time.Minute,
		Clock:    clk,
		Logger:   discardLogger(),
		Eligible: eligible,
	})
}

// advanceAndDrain fires the given number of ticks and waits until no refresh is running.
func advanceAndDrain(t *testing.T, v *View[*entity.LiveUpdate], clk *FakeClock, intervals int) {
	t.Helper()
	v.mu.Lock()
	h := v.handle
	v.mu.Unlock()
	require.NotNil(t, h, "view must be armed")
	for i := 0; i < intervals; i++ {
		clk.Advance(time.Minute)
	}
	require.Eventually(t, func() bool {
		return !v.Snapshot().Refreshing
	}, time.Second, time.Millisecond)
}

/* ───────────────────────────── Mount ───────────────────────────── */

func TestView_MountSeedsWithoutFlaggingNew(t *testing.T) {
	clk := NewFakeClock(epoch)
	f := &scriptedFetch{responses: []fetchResult{{items: updates(2, 1)}}}
	v := newTestView(clk, f.fetch, nil)

	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	snap := v.Snapshot()
	assert.True(t, snap.Loaded)
	assert.False(t, snap.HasNew)
	assert.Len(t, snap.Items, 2)
	assert.True(t, v.Armed())
	assert.Equal(t, 1, clk.Tickers())
}

func TestView_InitialLoadFailureIsFatalAndRetryable(t *testing.T) {
	clk := NewFakeClock(epoch)
	f := &scriptedFetch{responses: []fetchResult{
		{err: errors.New("connection refused")},
		{items: updates(1)},
	}}
	v := newTestView(clk, f.fetch, nil)

	err := v.Mount(context.Background())
	require.Error(t, err)
	assert.False(t, v.Mounted())
	assert.False(t, v.Armed(), "scheduler must not be armed before a successful initial load")
	assert.Equal(t, 0, clk.Tickers())

	require.NoError(t, v.Mount(context.Background()), "manual retry")
	defer v.Unmount()
	assert.True(t, v.Armed())
}

func TestView_NotEligibleIsNeverArmed(t *testing.T) {
	clk := NewFakeClock(epoch)
	f := &scriptedFetch{responses: []fetchResult{{items: updates(1)}}}
	article := &entity.Article{ID: 1, IsLive: false}
	v := newTestView(clk, f.fetch, func() bool { return article.IsLive })

	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	assert.False(t, v.Armed())
	clk.Advance(10 * time.Minute)
	assert.Equal(t, 1, f.Calls())
}

func TestView_AlreadyMounted(t *testing.T) {
	clk := NewFakeClock(epoch)
	f := &scriptedFetch{responses: []fetchResult{{items: updates(1)}}}
	v := newTestView(clk, f.fetch, nil)

	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()
	assert.Error(t, v.Mount(context.Background()))
}

func TestView_InitialLoadTimeout(t *testing.T) {
	v := NewView(func(ctx context.Context) ([]*entity.LiveUpdate, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, ViewConfig{RequestTimeout: 10 * time.Millisecond, Clock: NewFakeClock(epoch), Logger: discardLogger()})

	err := v.Mount(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

/* ───────────────────────────── Refresh ───────────────────────────── */

func TestView_RefreshFlagsNewHead(t *testing.T) {
	clk := NewFakeClock(epoch)
	f := &scriptedFetch{responses: []fetchResult{
		{items: updates(1)},
		{items: updates(2, 1)},
		{items: updates(2, 1)},
	}}
	v := newTestView(clk, f.fetch, nil)

	var changes atomic.Int32
	v.OnChange(func(Snapshot[*entity.LiveUpdate]) { changes.Add(1) })

	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	advanceAndDrain(t, v, clk, 1)
	require.Eventually(t, func() bool { return f.Calls() == 2 && v.Snapshot().HasNew }, time.Second, time.Millisecond)
	snap := v.Snapshot()
	assert.Equal(t, int64(2), snap.NewID)
	assert.Equal(t, epoch.Add(time.Minute), snap.LastRefresh)

	advanceAndDrain(t, v, clk, 1)
	require.Eventually(t, func() bool { return f.Calls() == 3 && !v.Snapshot().HasNew }, time.Second, time.Millisecond)
	assert.Len(t, v.Snapshot().Items, 2)
	assert.GreaterOrEqual(t, changes.Load(), int32(3))
}

func TestView_RefreshFailureKeepsDisplayedContent(t *testing.T) {
	clk := NewFakeClock(epoch)
	boom := errors.New("timeout")
	f := &scriptedFetch{responses: []fetchResult{
		{items: updates(1)},
		{err: boom},
		{items: updates(3, 1)},
	}}
	v := newTestView(clk, f.fetch, nil)
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	advanceAndDrain(t, v, clk, 1)
	require.Eventually(t, func() bool { return v.Snapshot().LastError != nil }, time.Second, time.Millisecond)
	snap := v.Snapshot()
	assert.ErrorIs(t, snap.LastError, boom)
	assert.Equal(t, updates(1), snap.Items)
	assert.True(t, v.Armed(), "a failed refresh must not tear down the schedule")

	advanceAndDrain(t, v, clk, 1)
	require.Eventually(t, func() bool { return f.Calls() == 3 && v.Snapshot().LastError == nil }, time.Second, time.Millisecond)
	assert.Equal(t, int64(3), v.Snapshot().NewID)
}

func TestView_ResultsAfterUnmountAreDiscarded(t *testing.T) {
	clk := NewFakeClock(epoch)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	v := newTestView(clk, func(ctx context.Context) ([]*entity.LiveUpdate, error) {
		if calls.Add(1) == 1 {
			return updates(1), nil
		}
		close(started)
		<-release
		return updates(99, 1), nil
	}, nil)

	var changes atomic.Int32
	require.NoError(t, v.Mount(context.Background()))
	v.OnChange(func(Snapshot[*entity.LiveUpdate]) { changes.Add(1) })

	v.mu.Lock()
	h := v.handle
	v.mu.Unlock()

	clk.Advance(time.Minute)
	<-started
	v.Unmount()
	close(release)
	h.Wait()

	assert.Equal(t, int32(0), changes.Load())
	assert.Equal(t, updates(1), v.Snapshot().Items)
	assert.False(t, v.Snapshot().HasNew)
	assert.Equal(t, 0, clk.Tickers(), "unmount must not leak timers")
}

func TestView_RemountDoesNotLeakTimers(t *testing.T) {
	clk := NewFakeClock(epoch)
	f := &scriptedFetch{responses: []fetchResult{{items: updates(1)}}}
	v := newTestView(clk, f.fetch, nil)

	for i := 0; i < 3; i++ {
		require.NoError(t, v.Mount(context.Background()))
		v.Unmount()
	}
	require.NoError(t, v.Mount(context.Background()))
	defer v.Unmount()

	assert.Equal(t, 1, clk.Tickers())
}

func TestView_RefreshWhenUnmounted(t *testing.T) {
	f := &scriptedFetch{responses: []fetchResult{{items: updates(1)}}}
	v := newTestView(NewFakeClock(epoch), f.fetch, nil)
	assert.ErrorIs(t, v.Refresh(context.Background()), ErrUnmounted)
}

/* ───────────────────────────── MountAll ───────────────────────────── */

func TestMountAll(t *testing.T) {
	clk := NewFakeClock(epoch)
	ok1 := newTestView(clk, (&scriptedFetch{responses: []fetchResult{{items: updates(1)}}}).fetch, nil)
	ok2 := newTestView(clk, (&scriptedFetch{responses: []fetchResult{{items: updates(5)}}}).fetch, nil)

	require.NoError(t, MountAll(context.Background(), ok1, ok2))
	assert.True(t, ok1.Mounted())
	assert.True(t, ok2.Mounted())
	ok1.Unmount()
	ok2.Unmount()
}

func TestMountAll_FailureUnmountsEverything(t *testing.T) {
	clk := NewFakeClock(epoch)
	good := newTestView(clk, (&scriptedFetch{responses: []fetchResult{{items: updates(1)}}}).fetch, nil)
	bad := newTestView(clk, (&scriptedFetch{responses: []fetchResult{{err: errors.New("down")}}}).fetch, nil)

	err := MountAll(context.Background(), good, bad)
	require.Error(t, err)
	assert.False(t, good.Mounted())
	assert.False(t, bad.Mounted())
	assert.Equal(t, 0, clk.Tickers())
}
