package views

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdra/portfolio/internal/scrollspy"
)

var sections = []scrollspy.Section{
	{ID: "home", Label: "Home"},
	{ID: "about", Label: "About"},
	{ID: "projects", Label: "Projects"},
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestRegistry_OpenScrollGoto(t *testing.T) {
	reg := NewRegistry()

	id, state, err := reg.Open(sections)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, scrollspy.State{Active: "home"}, state)

	state, err = reg.Scroll(id, scrollspy.Position{Y: 700, Layout: scrollspy.Regions{
		"about": {Top: 20, Bottom: 600},
	}})
	require.NoError(t, err)
	assert.Equal(t, scrollspy.State{Active: "about", Scrolled: true}, state)

	res, err := reg.Goto(id, "projects")
	require.NoError(t, err)
	assert.Equal(t, Result{State: scrollspy.State{Active: "projects", Scrolled: true}, ScrollTo: "projects"}, res)

	state, err = reg.State(id)
	require.NoError(t, err)
	assert.Equal(t, "projects", state.Active)
}

func TestRegistry_GotoUnknownSection(t *testing.T) {
	reg := NewRegistry()
	id, _, err := reg.Open(sections)
	require.NoError(t, err)

	res, err := reg.Goto(id, "contact")
	require.NoError(t, err)
	assert.Equal(t, "home", res.Active)
	assert.Empty(t, res.ScrollTo)
}

func TestRegistry_SpyOptionsApplied(t *testing.T) {
	reg := NewRegistry(WithSpyOptions(scrollspy.WithReferenceLine(3), scrollspy.WithScrollThreshold(1)))
	id, _, err := reg.Open(sections)
	require.NoError(t, err)

	state, err := reg.Scroll(id, scrollspy.Position{Y: 2, Layout: scrollspy.Regions{
		"about":    {Top: -5, Bottom: 2},
		"projects": {Top: 2, Bottom: 10},
	}})
	require.NoError(t, err)
	assert.Equal(t, scrollspy.State{Active: "projects", Scrolled: true}, state)
}

func TestRegistry_UnknownAndClosedViews(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Scroll("nope", scrollspy.Position{})
	assert.ErrorIs(t, err, ErrUnknownView)
	_, err = reg.Goto("nope", "home")
	assert.ErrorIs(t, err, ErrUnknownView)
	assert.ErrorIs(t, reg.Close("nope"), ErrUnknownView)

	id, _, err := reg.Open(sections)
	require.NoError(t, err)
	require.NoError(t, reg.Close(id))
	assert.Equal(t, 0, reg.Len())

	_, err = reg.State(id)
	assert.ErrorIs(t, err, ErrUnknownView)
	assert.ErrorIs(t, reg.Close(id), ErrUnknownView)
}

func TestRegistry_OpenRejectsEmptySections(t *testing.T) {
	reg := NewRegistry()
	_, _, err := reg.Open(nil)
	assert.ErrorIs(t, err, scrollspy.ErrNoSections)
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_MaxViewsEvictsLeastRecentlySeen(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	reg := NewRegistry(WithMaxViews(3), withClock(clock.Now))

	ids := make([]string, 3)
	for i := range ids {
		id, _, err := reg.Open(sections)
		require.NoError(t, err)
		ids[i] = id
		clock.Advance(time.Second)
	}

	// Touching the oldest view makes the second one the eviction target.
	_, err := reg.State(ids[0])
	require.NoError(t, err)
	clock.Advance(time.Second)

	fresh, _, err := reg.Open(sections)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())

	_, err = reg.State(ids[1])
	assert.ErrorIs(t, err, ErrUnknownView)
	for _, id := range []string{ids[0], ids[2], fresh} {
		_, err := reg.State(id)
		assert.NoError(t, err, id)
	}
}

func TestRegistry_MaxViewsBoundsGrowth(t *testing.T) {
	reg := NewRegistry(WithMaxViews(50))
	for i := 0; i < 500; i++ {
		_, _, err := reg.Open(sections)
		require.NoError(t, err)
	}
	assert.Equal(t, 50, reg.Len())
}

func TestRegistry_SweepExpiresIdleViews(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	reg := NewRegistry(WithTTL(time.Minute), withClock(clock.Now))

	idle, _, err := reg.Open(sections)
	require.NoError(t, err)
	active, _, err := reg.Open(sections)
	require.NoError(t, err)

	clock.Advance(45 * time.Second)
	_, err = reg.State(active)
	require.NoError(t, err)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 1, reg.Sweep())
	assert.Equal(t, 1, reg.Len())

	_, err = reg.State(idle)
	assert.ErrorIs(t, err, ErrUnknownView)
	_, err = reg.State(active)
	assert.NoError(t, err)
}

func TestRegistry_RunClosesViewsOnShutdown(t *testing.T) {
	reg := NewRegistry(WithTTL(time.Hour))
	_, _, err := reg.Open(sections)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reg.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_ConcurrentViews(t *testing.T) {
	reg := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _, err := reg.Open(sections)
			if !assert.NoError(t, err) {
				return
			}
			for y := 0.0; y < 500; y += 25 {
				_, err := reg.Scroll(id, scrollspy.Position{Y: y, Layout: scrollspy.Regions{
					"about": {Top: 100 - y, Bottom: 400 - y},
				}})
				assert.NoError(t, err)
			}
			_, err = reg.Goto(id, "projects")
			assert.NoError(t, err)
			assert.NoError(t, reg.Close(id))
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, reg.Len())
}
