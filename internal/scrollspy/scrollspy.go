// Package scrollspy derives the "current section" of a long page from its
// scroll position.
//
// A Controller owns the navigation state: the active section and whether the
// page has been scrolled past a threshold. It changes only in response to
// scroll-position events from a Source and to explicit Goto calls. A
// Controller is not safe for concurrent use; its owner delivers events on a
// single logical thread, the way a UI event loop does.
package scrollspy

import (
	"errors"
	"fmt"
)

const (
	// DefaultReferenceLine is the distance from the viewport top of the line
	// a section must cross to become active.
	DefaultReferenceLine = 100
	// DefaultScrollThreshold is the scroll offset past which the page counts
	// as scrolled.
	DefaultScrollThreshold = 50
)

// Region is a section's extent relative to the top of the viewport.
type Region struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Contains reports whether the horizontal line at y crosses the region.
func (r Region) Contains(y float64) bool {
	return r.Top <= y && r.Bottom >= y
}

// Section is a named region of the page. Sections are kept in top to
// bottom order.
type Section struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Layout reports where each section currently sits. A section without
// bounds is skipped.
type Layout interface {
	Bounds(id string) (Region, bool)
}

// Regions is a Layout snapshot keyed by section id.
type Regions map[string]Region

func (r Regions) Bounds(id string) (Region, bool) {
	b, ok := r[id]
	return b, ok
}

// Position is a single scroll-position-changed event.
type Position struct {
	Y      float64
	Layout Layout
}

// State is the navigation state read by rendering.
type State struct {
	Active   string `json:"active"`
	Scrolled bool   `json:"scrolled"`
}

// Scroller moves the viewport so a section's top aligns with the viewport
// top. Implementations animate; the controller never waits for them.
type Scroller interface {
	ScrollIntoView(id string)
}

// ScrollerFunc adapts a function to the Scroller interface.
type ScrollerFunc func(id string)

func (f ScrollerFunc) ScrollIntoView(id string) { f(id) }

type Option func(*Controller)

// WithReferenceLine sets the intersection line, measured from the viewport
// top.
func WithReferenceLine(y float64) Option {
	return func(c *Controller) { c.line = y }
}

// WithScrollThreshold sets the offset that must be exceeded for the page to
// count as scrolled.
func WithScrollThreshold(y float64) Option {
	return func(c *Controller) { c.threshold = y }
}

// WithScroller sets the viewport used by Goto.
func WithScroller(s Scroller) Option {
	return func(c *Controller) { c.scroller = s }
}

var ErrNoSections = errors.New("scrollspy: no sections")

type subscriber struct {
	id int
	fn func(State)
}

type Controller struct {
	sections  []Section
	index     map[string]int
	line      float64
	threshold float64
	scroller  Scroller

	state   State
	subs    []subscriber
	nextSub int
	detach  []func()
	closed  bool
}

// New builds a controller over sections, ordered top to bottom. The first
// section starts out active.
func New(sections []Section, opts ...Option) (*Controller, error) {
	if len(sections) == 0 {
		return nil, ErrNoSections
	}
	c := &Controller{
		sections:  make([]Section, len(sections)),
		index:     make(map[string]int, len(sections)),
		line:      DefaultReferenceLine,
		threshold: DefaultScrollThreshold,
	}
	copy(c.sections, sections)
	for i, s := range c.sections {
		if s.ID == "" {
			return nil, fmt.Errorf("scrollspy: section %d has an empty id", i)
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("scrollspy: duplicate section %q", s.ID)
		}
		c.index[s.ID] = i
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.Active = c.sections[0].ID
	return c, nil
}

func (c *Controller) Active() string { return c.state.Active }
func (c *Controller) Scrolled() bool { return c.state.Scrolled }
func (c *Controller) State() State { return c.state }
func (c *Controller) ReferenceLine() float64 { return c.line }

// Sections returns the sections in page order.
func (c *Controller) Sections() []Section {
	out := make([]Section, len(c.sections))
	copy(out, c.sections)
	return out
}

// Has reports whether id names one of the controller's sections.
func (c *Controller) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// HandleScroll applies one scroll event. The first section in page order
// whose region crosses the reference line becomes active; when none does,
// the active section stays as it was.
func (c *Controller) HandleScroll(p Position) {
	if c.closed {
		return
	}
	next := c.state
	next.Scrolled = p.Y > c.threshold
	if p.Layout != nil {
		for _, s := range c.sections {
			if r, ok := p.Layout.Bounds(s.ID); ok && r.Contains(c.line) {
				next.Active = s.ID
				break
			}
		}
	}
	c.set(next)
}

// Goto scrolls to the section and marks it active right away, without
// waiting for the scroll to settle. Unknown ids are ignored and reported
// as false.
func (c *Controller) Goto(id string) bool {
	if c.closed || !c.Has(id) {
		return false
	}
	if c.scroller != nil {
		c.scroller.ScrollIntoView(id)
	}
	next := c.state
	next.Active = id
	c.set(next)
	return true
}

// Subscribe registers fn to be called after every state change. The
// returned function unregisters it.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	if c.closed || fn == nil {
		return func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs = append(c.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, s := range c.subs {
			if s.id == id {
				c.subs = append(c.subs[:i], c.subs[i+1:]...)
				return
			}
		}
	}
}

// Attach starts consuming scroll events from src until Close.
func (c *Controller) Attach(src Source) {
	if c.closed || src == nil {
		return
	}
	c.detach = append(c.detach, src.Subscribe(c.HandleScroll))
}

// Close removes the scroll listeners and drops subscribers. The state stays
// readable. Close is idempotent.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	for _, cancel := range c.detach {
		cancel()
	}
	c.detach = nil
	c.subs = nil
}

func (c *Controller) Closed() bool { return c.closed }

func (c *Controller) set(next State) {
	if next == c.state {
		return
	}
	c.state = next
	subs := make([]subscriber, len(c.subs))
	copy(subs, c.subs)
	for _, s := range subs {
		s.fn(next)
	}
}
