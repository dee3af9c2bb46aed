// Package views keeps one scroll-spy controller alive per page view. A page
// opens its view when its script first reports, then sends scroll positions
// and navigation clicks against the view id. The view is torn down when the
// page goes away or stops reporting, and the oldest views are evicted once
// the registry is full.
package views

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abdra/portfolio/internal/scrollspy"
)

// ErrUnknownView is returned for ids that were never opened, were closed,
// or expired.
var ErrUnknownView = errors.New("unknown view")

const (
	DefaultTTL           = 30 * time.Minute
	DefaultMaxViews      = 10000
	defaultSweepInterval = time.Minute
)

// Result is the reply to a navigation request. ScrollTo names the section
// the client should smooth-scroll to, if any.
type Result struct {
	scrollspy.State
	ScrollTo string `json:"scrollTo,omitempty"`
}

type view struct {
	mu       sync.Mutex
	ctrl     *scrollspy.Controller
	feed     *scrollspy.Feed
	scrollTo string
	lastSeen time.Time
}

type Option func(*Registry)

// WithTTL sets how long a view may stay silent before it is swept.
func WithTTL(ttl time.Duration) Option {
	return func(r *Registry) { r.ttl = ttl }
}

// WithSpyOptions sets the options passed to every new controller.
func WithSpyOptions(opts ...scrollspy.Option) Option {
	return func(r *Registry) { r.spyOpts = append(r.spyOpts, opts...) }
}

// WithMaxViews caps the number of live views. Opening a view at the cap
// evicts the one seen least recently.
func WithMaxViews(n int) Option {
	return func(r *Registry) { r.max = n }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

func withClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// Registry maps view ids to their controllers. It is safe for concurrent
// use; events for a single view are applied one at a time.
type Registry struct {
	mu      sync.Mutex
	views   map[string]*view
	ttl     time.Duration
	max     int
	spyOpts []scrollspy.Option
	logger  *slog.Logger
	now     func() time.Time
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		views:  make(map[string]*view),
		ttl:    DefaultTTL,
		max:    DefaultMaxViews,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open starts a view over sections and returns its id and initial state.
func (r *Registry) Open(sections []scrollspy.Section) (string, scrollspy.State, error) {
	v := &view{feed: &scrollspy.Feed{}, lastSeen: r.now()}

	opts := make([]scrollspy.Option, 0, len(r.spyOpts)+1)
	opts = append(opts, r.spyOpts...)
	opts = append(opts, scrollspy.WithScroller(scrollspy.ScrollerFunc(func(id string) {
		v.scrollTo = id
	})))
	ctrl, err := scrollspy.New(sections, opts...)
	if err != nil {
		return "", scrollspy.State{}, err
	}
	ctrl.Attach(v.feed)
	v.ctrl = ctrl

	id := uuid.NewString()
	r.mu.Lock()
	var evicted *view
	if r.max > 0 && len(r.views) >= r.max {
		evicted = r.evictLocked()
	}
	r.views[id] = v
	r.mu.Unlock()

	if evicted != nil {
		evicted.mu.Lock()
		evicted.ctrl.Close()
		evicted.mu.Unlock()
		r.logger.Debug("evicted idle view", "max", r.max)
	}
	return id, ctrl.State(), nil
}

// evictLocked drops the view seen least recently. r.mu must be held.
func (r *Registry) evictLocked() *view {
	var (
		oldestID string
		oldest   *view
		seen     time.Time
	)
	for id, v := range r.views {
		v.mu.Lock()
		last := v.lastSeen
		v.mu.Unlock()
		if oldest == nil || last.Before(seen) {
			oldestID, oldest, seen = id, v, last
		}
	}
	if oldest != nil {
		delete(r.views, oldestID)
	}
	return oldest
}

func (r *Registry) lookup(id string) (*view, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.views[id]
	if !ok {
		return nil, ErrUnknownView
	}
	return v, nil
}

// do runs fn with the view locked. A view closed while fn waited for the
// lock is reported as unknown.
func (r *Registry) do(id string, fn func(v *view)) error {
	v, err := r.lookup(id)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.ctrl.Closed() {
		return ErrUnknownView
	}
	v.lastSeen = r.now()
	fn(v)
	return nil
}

// Scroll publishes a scroll position to the view.
func (r *Registry) Scroll(id string, p scrollspy.Position) (scrollspy.State, error) {
	var state scrollspy.State
	err := r.do(id, func(v *view) {
		v.feed.Publish(p)
		state = v.ctrl.State()
	})
	return state, err
}

// Goto navigates the view to section. Unknown sections leave the state as
// it was and produce an empty ScrollTo.
func (r *Registry) Goto(id, section string) (Result, error) {
	var res Result
	err := r.do(id, func(v *view) {
		v.scrollTo = ""
		v.ctrl.Goto(section)
		res = Result{State: v.ctrl.State(), ScrollTo: v.scrollTo}
	})
	return res, err
}

func (r *Registry) State(id string) (scrollspy.State, error) {
	var state scrollspy.State
	err := r.do(id, func(v *view) { state = v.ctrl.State() })
	return state, err
}

// Close tears the view down.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	v, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()
	if !ok {
		return ErrUnknownView
	}
	v.mu.Lock()
	v.ctrl.Close()
	v.mu.Unlock()
	return nil
}

// Len returns the number of live views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Sweep closes views idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var stale []*view
	for id, v := range r.views {
		v.mu.Lock()
		idle := v.lastSeen.Before(cutoff)
		v.mu.Unlock()
		if idle {
			stale = append(stale, v)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, v := range stale {
		v.mu.Lock()
		v.ctrl.Close()
		v.mu.Unlock()
	}
	return len(stale)
}

// Run sweeps expired views until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	interval := defaultSweepInterval
	if r.ttl > 0 && r.ttl < interval {
		interval = r.ttl
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.closeAll()
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Debug("swept idle views", "count", n, "live", r.Len())
			}
		}
	}
}

func (r *Registry) closeAll() {
	r.mu.Lock()
	all := r.views
	r.views = make(map[string]*view)
	r.mu.Unlock()
	for _, v := range all {
		v.mu.Lock()
		v.ctrl.Close()
		v.mu.Unlock()
	}
}
