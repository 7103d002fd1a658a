package live

import (
	"sort"
	"sync"
	"time"
)

// Clock provides an abstraction for time operations to enable testing.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker is the subset of time.Ticker the scheduler needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock is a Clock backed by the system time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (r *realTicker) C() <-chan time.Time { return r.t.C }
func (r *realTicker) Stop()               { r.t.Stop() }

// FakeClock is a manually advanced Clock for virtual-time tests.
// Advance delivers every tick that falls inside the advanced window, in order,
// and blocks until each one is received or its ticker is stopped.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

// NewFakeClock returns a FakeClock set to start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (f *FakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *FakeClock) NewTicker(d time.Duration) Ticker {
	if d <= 0 {
		panic("live: non-positive interval for FakeClock.NewTicker")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTicker{
		c:       make(chan time.Time),
		stopped: make(chan struct{}),
		period:  d,
		next:    f.now.Add(d),
	}
	f.tickers = append(f.tickers, t)
	return t
}

// Tickers returns the number of tickers that have not been stopped.
func (f *FakeClock) Tickers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing due ticks.
func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		due := f.dueTickers(target)
		if len(due) == 0 {
			f.now = target
			f.mu.Unlock()
			return
		}
		t := due[0]
		at := t.next
		f.now = at
		t.next = at.Add(t.period)
		f.mu.Unlock()

		t.fire(at)
	}
}

// dueTickers returns live tickers with a deadline at or before target, earliest first.
func (f *FakeClock) dueTickers(target time.Time) []*fakeTicker {
	var due []*fakeTicker
	for _, t := range f.tickers {
		if !t.isStopped() && !t.next.After(target) {
			due = append(due, t)
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].next.Before(due[j].next) })
	return due
}

type fakeTicker struct {
	c        chan time.Time
	stopped  chan struct{}
	stopOnce sync.Once
	period   time.Duration
	next     time.Time
}

func (t *fakeTicker) C() <-chan time.Time { return t.c }

func (t *fakeTicker) Stop() {
	t.stopOnce.Do(func() { close(t.stopped) })
}

func (t *fakeTicker) isStopped() bool {
	select {
	case <-t.stopped:
		return true
	default:
		return false
	}
}

func (t *fakeTicker) fire(at time.Time) {
	select {
	case t.c <- at:
	case <-t.stopped:
	}
}
