// Package smart reconciles estimated boundaries with real rendered sizes.
//
// A [Controller] owns one container. It starts from the estimates produced
// by package measure (state Initial). Children report their rendered
// boundary with [Controller.Report], which moves the controller to
// Reconciling; reports are queued, coalesced by child id and applied in one
// [Controller.Flush], which re-runs the container's arrangement over
// estimates plus overrides and leaves the controller Stable. The parent is
// told about the container's new boundary at most once per flush, and only
// when it actually changed.
//
// A [Scheduler] batches flushes for a whole tree: each [Scheduler.Tick]
// flushes dirty controllers deepest first, so a child's new size reaches its
// parent within the same tick.
package smart

import (
	"sync"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/layout"
	"github.com/matzehuels/adaptiveflow/pkg/observability"
)

// State is the reconciliation state of a controller.
type State int

const (
	Initial State = iota
	Reconciling
	Stable
)

func (s State) String() string {
	switch s {
	case Initial:
		return "initial"
	case Reconciling:
		return "reconciling"
	case Stable:
		return "stable"
	}
	return "unknown"
}

// Child is one child slot of a container. Version identifies the content
// the child was rendered from; a report for an older version is stale.
type Child struct {
	ID       string
	Version  string
	Estimate boundary.Boundary
}

// Arrange lays out a container from one boundary per child, in child order.
type Arrange func(children []boundary.Boundary) layout.GraphLayout

// Options configures a controller.
type Options struct {
	// ID names the container in hooks and logs.
	ID string
	// Depth is the container's nesting depth; the scheduler flushes deeper
	// containers first.
	Depth int
	// Scheduler, when set, is told whenever the controller has pending
	// reports.
	Scheduler *Scheduler
	// OnResize receives the container's boundary after every change.
	OnResize func(boundary.Boundary)
}

type report struct {
	version  string
	boundary boundary.Boundary
}

// Controller runs the reconciliation loop of one container.
type Controller struct {
	mu        sync.Mutex
	opts      Options
	arrange   Arrange
	children  []Child
	index     map[string]int
	overrides map[string]boundary.Boundary
	pending   map[string]report
	state     State
	layout    layout.GraphLayout
	closed    bool
	runs      int
}

// NewController computes the initial layout from the children's estimates.
func NewController(children []Child, arrange Arrange, opts Options) *Controller {
	c := &Controller{
		opts:      opts,
		arrange:   arrange,
		overrides: make(map[string]boundary.Boundary),
		pending:   make(map[string]report),
	}
	c.setChildren(children)
	c.layout = c.run()
	return c
}

// Report queues the rendered boundary of a child. Reports after Close are
// ignored.
func (c *Controller) Report(childID, version string, b boundary.Boundary) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.pending[childID] = report{version: version, boundary: b}
	c.state = Reconciling
	sched := c.opts.Scheduler
	c.mu.Unlock()

	if sched != nil {
		sched.markDirty(c)
	}
}

// Flush applies queued reports and re-runs the arrangement once. It reports
// whether the container boundary changed.
func (c *Controller) Flush() bool {
	c.mu.Lock()
	if c.closed || len(c.pending) == 0 {
		c.mu.Unlock()
		return false
	}

	applied := false
	for id, r := range c.pending {
		i, ok := c.index[id]
		if !ok || c.children[i].Version != r.version {
			continue // superseded measurement
		}
		if cur, ok := c.overrides[id]; ok && cur == r.boundary {
			continue
		}
		c.overrides[id] = r.boundary
		applied = true
	}
	clear(c.pending)

	prev := c.layout.Boundary
	if applied {
		c.layout = c.run()
	}
	c.state = Stable
	changed := prev != c.layout.Boundary
	next, onResize := c.layout.Boundary, c.opts.OnResize
	c.mu.Unlock()

	observability.Layout().OnRelayout(c.opts.ID, changed)
	if changed && onResize != nil {
		onResize(next)
	}
	return changed
}

// Reset replaces the children after a structural change. Overrides survive
// only for children whose id and version are unchanged. The parent is
// notified if the boundary changed.
func (c *Controller) Reset(children []Child) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	old := make(map[string]string, len(c.children))
	for _, ch := range c.children {
		old[ch.ID] = ch.Version
	}
	c.setChildren(children)
	for id := range c.overrides {
		i, ok := c.index[id]
		if !ok || old[id] != c.children[i].Version {
			delete(c.overrides, id)
		}
	}

	prev := c.layout.Boundary
	c.layout = c.run()
	switch {
	case len(c.pending) > 0:
		c.state = Reconciling
	case len(c.overrides) > 0:
		c.state = Stable
	default:
		c.state = Initial
	}
	changed := prev != c.layout.Boundary
	next, onResize := c.layout.Boundary, c.opts.OnResize
	c.mu.Unlock()

	if changed && onResize != nil {
		onResize(next)
	}
}

// Close tears the controller down. Later reports and flushes are no-ops.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	clear(c.pending)
	sched := c.opts.Scheduler
	c.mu.Unlock()

	if sched != nil {
		sched.forget(c)
	}
}

// Layout returns the current layout.
func (c *Controller) Layout() layout.GraphLayout {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout
}

// Boundary returns the current container boundary.
func (c *Controller) Boundary() boundary.Boundary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layout.Boundary
}

// State returns the reconciliation state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Runs returns how many times the arrangement was executed.
func (c *Controller) Runs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runs
}

// ID returns the container id.
func (c *Controller) ID() string { return c.opts.ID }

// Depth returns the nesting depth.
func (c *Controller) Depth() int { return c.opts.Depth }

func (c *Controller) setChildren(children []Child) {
	c.children = append([]Child(nil), children...)
	c.index = make(map[string]int, len(children))
	for i, ch := range c.children {
		c.index[ch.ID] = i
	}
}

// run must be called with c.mu held.
func (c *Controller) run() layout.GraphLayout {
	bs := make([]boundary.Boundary, len(c.children))
	for i, ch := range c.children {
		if o, ok := c.overrides[ch.ID]; ok {
			bs[i] = o
		} else {
			bs[i] = ch.Estimate
		}
	}
	c.runs++
	return c.arrange(bs)
}
