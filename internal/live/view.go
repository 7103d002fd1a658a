package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultRequestTimeout bounds every fetch a view issues.
const DefaultRequestTimeout = 15 * time.Second

// ErrUnmounted is returned by Mount when the view was unmounted while its
// initial load was in flight. The loaded data is discarded.
var ErrUnmounted = errors.New("live: view unmounted during initial load")

// FetchFunc loads the full collection a view displays.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// ViewConfig configures a View. Zero values fall back to defaults.
type ViewConfig struct {
	Name           string
	Interval       time.Duration
	RequestTimeout time.Duration
	Clock          Clock
	Logger         *slog.Logger
	// Eligible is consulted once the initial load settles; the scheduler is
	// armed only when it returns true. nil means always eligible.
	Eligible func() bool
}

// Snapshot is a copy of a view's displayed state.
type Snapshot[T Identified] struct {
	Items       []T
	NewID       int64
	HasNew      bool
	Loaded      bool
	Refreshing  bool
	LastRefresh time.Time
	// LastError is the most recent background refresh failure, cleared by the
	// next successful refresh. It never replaces Items.
	LastError error
}

// View owns one mounted collection and its refresh schedule.
type View[T Identified] struct {
	cfg       ViewConfig
	fetch     FetchFunc[T]
	scheduler *Scheduler

	mu         sync.Mutex
	mounted    bool
	generation uint64
	handle     *Handle
	refreshing int
	state      Snapshot[T]
	onChange   func(Snapshot[T])
}

// NewView binds fetch to a refresh schedule.
func NewView[T Identified](fetch FetchFunc[T], cfg ViewConfig) *View[T] {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultRefreshInterval
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Name == "" {
		cfg.Name = "view"
	}
	return &View[T]{
		cfg:       cfg,
		fetch:     fetch,
		scheduler: NewScheduler(cfg.Name, cfg.Clock, cfg.Logger),
	}
}

// OnChange registers a callback invoked after every state change.
// It runs outside the view's lock and may call Snapshot.
func (v *View[T]) OnChange(fn func(Snapshot[T])) {
	v.mu.Lock()
	v.onChange = fn
	v.mu.Unlock()
}

// Mount performs the initial load and, if the view is eligible, arms the
// refresh scheduler. An initial load error is returned and leaves the view
// unmounted; calling Mount again is the manual retry.
func (v *View[T]) Mount(ctx context.Context) error {
	v.mu.Lock()
	if v.mounted {
		v.mu.Unlock()
		return fmt.Errorf("live: view %q already mounted", v.cfg.Name)
	}
	v.mounted = true
	v.generation++
	gen := v.generation
	v.mu.Unlock()

	items, err := v.load(ctx)

	v.mu.Lock()
	if v.generation != gen || !v.mounted {
		v.mu.Unlock()
		return ErrUnmounted
	}
	if err != nil {
		v.mounted = false
		v.mu.Unlock()
		return fmt.Errorf("initial load %s: %w", v.cfg.Name, err)
	}
	v.state = Snapshot[T]{
		Items:       items,
		Loaded:      true,
		LastRefresh: v.cfg.Clock.Now(),
	}
	if v.cfg.Eligible == nil || v.cfg.Eligible() {
		v.handle = v.scheduler.Start(context.WithoutCancel(ctx), v.cfg.Interval, v.refresher(gen))
	}
	snap, notify := v.snapshotLocked(), v.onChange
	v.mu.Unlock()

	if notify != nil {
		notify(snap)
	}
	return nil
}

// Unmount cancels the scheduler. Refreshes still in flight finish, but their
// results are dropped.
func (v *View[T]) Unmount() {
	v.mu.Lock()
	v.mounted = false
	v.generation++
	h := v.handle
	v.handle = nil
	v.refreshing = 0
	v.mu.Unlock()

	h.Cancel()
}

// Mounted reports whether the view is mounted.
func (v *View[T]) Mounted() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mounted
}

// Armed reports whether a refresh schedule is running.
func (v *View[T]) Armed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.handle != nil
}

// Snapshot returns a copy of the current state.
func (v *View[T]) Snapshot() Snapshot[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

// Refresh runs one refresh immediately, outside the schedule.
func (v *View[T]) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if !v.mounted {
		v.mu.Unlock()
		return ErrUnmounted
	}
	gen := v.generation
	v.mu.Unlock()
	return v.refresher(gen)(ctx)
}

func (v *View[T]) snapshotLocked() Snapshot[T] {
	s := v.state
	s.Items = append([]T(nil), v.state.Items...)
	s.Refreshing = v.refreshing > 0
	return s
}

func (v *View[T]) load(ctx context.Context) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, v.cfg.RequestTimeout)
	defer cancel()
	return v.fetch(ctx)
}

func (v *View[T]) refresher(gen uint64) RefreshFunc {
	return func(ctx context.Context) error {
		v.mu.Lock()
		if v.generation != gen {
			v.mu.Unlock()
			return nil
		}
		v.refreshing++
		v.mu.Unlock()

		items, err := v.load(ctx)

		v.mu.Lock()
		if v.generation != gen || !v.mounted {
			v.mu.Unlock()
			return nil
		}
		v.refreshing--
		if err != nil {
			v.state.LastError = err
			snap, notify := v.snapshotLocked(), v.onChange
			v.mu.Unlock()
			if notify != nil {
				notify(snap)
			}
			return err
		}
		merged := Merge(v.state.Items, items)
		v.state.Items = merged.Items
		v.state.NewID = merged.NewID
		v.state.HasNew = merged.HasNew
		v.state.LastRefresh = v.cfg.Clock.Now()
		v.state.LastError = nil
		snap, notify := v.snapshotLocked(), v.onChange
		v.mu.Unlock()

		if notify != nil {
			notify(snap)
		}
		return nil
	}
}

// Mounter is anything MountAll can mount together.
type Mounter interface {
	Mount(ctx context.Context) error
	Unmount()
}

// MountAll mounts views concurrently. If any initial load fails, every view is
// unmounted and the first error is returned.
func MountAll(ctx context.Context, views ...Mounter) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, view := range views {
		g.Go(func() error {
			return view.Mount(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		for _, view := range views {
			view.Unmount()
		}
		return err
	}
	return nil
}
