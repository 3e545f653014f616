package smart

import (
	"testing"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/layout"
)

func sequential(s boundary.Sizes) Arrange {
	return func(bs []boundary.Boundary) layout.GraphLayout {
		nodes := make([]layout.GraphNode, len(bs))
		for i, b := range bs {
			nodes[i] = layout.NewNode(layout.StepName(i), nil, b)
		}
		return layout.Sequential(s, false, false, nodes...)
	}
}

func twoChildren(s boundary.Sizes) []Child {
	return []Child{
		{ID: "actions[0]", Version: "v1", Estimate: s.Default()},
		{ID: "actions[1]", Version: "v1", Estimate: s.Default()},
	}
}

func TestInitialLayoutUsesEstimates(t *testing.T) {
	s := boundary.DefaultSizes()
	c := NewController(twoChildren(s), sequential(s), Options{ID: "root"})

	if c.State() != Initial {
		t.Errorf("State() = %v, want initial", c.State())
	}
	if want := 2*s.NodeHeight + s.ElementGapY; c.Boundary().Height != want {
		t.Errorf("Height = %g, want %g", c.Boundary().Height, want)
	}
	if c.Runs() != 1 {
		t.Errorf("Runs() = %d, want 1", c.Runs())
	}
}

func TestReportsCoalesce(t *testing.T) {
	s := boundary.DefaultSizes()
	var notified []boundary.Boundary
	c := NewController(twoChildren(s), sequential(s), Options{
		ID:       "root",
		OnResize: func(b boundary.Boundary) { notified = append(notified, b) },
	})

	c.Report("actions[0]", "v1", boundary.New(180, 70))
	c.Report("actions[0]", "v1", boundary.New(180, 80))
	c.Report("actions[0]", "v1", boundary.New(180, 100))
	if c.State() != Reconciling {
		t.Errorf("State() = %v before flush, want reconciling", c.State())
	}

	if !c.Flush() {
		t.Fatal("Flush() = false, want change")
	}
	if c.Runs() != 2 {
		t.Errorf("Runs() = %d, want one re-run per flush", c.Runs())
	}
	if want := 100 + s.NodeHeight + s.ElementGapY; c.Boundary().Height != want {
		t.Errorf("Height = %g, want last report to win (%g)", c.Boundary().Height, want)
	}
	if len(notified) != 1 {
		t.Fatalf("parent notified %d times, want 1", len(notified))
	}
	if c.State() != Stable {
		t.Errorf("State() = %v, want stable", c.State())
	}
}

func TestStaleReportsDiscarded(t *testing.T) {
	s := boundary.DefaultSizes()
	notified := 0
	c := NewController(twoChildren(s), sequential(s), Options{OnResize: func(boundary.Boundary) { notified++ }})
	before := c.Boundary()

	c.Report("actions[0]", "v0", boundary.New(500, 500))
	c.Report("actions[9]", "v1", boundary.New(500, 500))

	if c.Flush() {
		t.Error("Flush() applied a stale report")
	}
	if c.Boundary() != before {
		t.Errorf("Boundary() = %v, want %v", c.Boundary(), before)
	}
	if notified != 0 {
		t.Errorf("parent notified %d times, want 0", notified)
	}
	if c.Runs() != 1 {
		t.Errorf("Runs() = %d, want no re-run", c.Runs())
	}
}

func TestUnchangedBoundaryDoesNotNotify(t *testing.T) {
	s := boundary.DefaultSizes()
	notified := 0
	c := NewController(twoChildren(s), sequential(s), Options{OnResize: func(boundary.Boundary) { notified++ }})

	// Same box, axis moved: positions change, the container boundary
	// does not.
	c.Report("actions[1]", "v1", boundary.Boundary{Width: 180, Height: 62, AxisX: 90, AxisY: 10})
	if c.Flush() {
		t.Error("Flush() reported a boundary change")
	}
	if notified != 0 {
		t.Errorf("parent notified %d times, want 0", notified)
	}

	// Repeating the report changes nothing.
	c.Report("actions[1]", "v1", boundary.Boundary{Width: 180, Height: 62, AxisX: 90, AxisY: 10})
	c.Flush()
	if c.Runs() != 2 {
		t.Errorf("Runs() = %d, want no re-run for a repeated report", c.Runs())
	}
	if c.State() != Stable {
		t.Errorf("State() = %v, want stable", c.State())
	}
}

func TestCloseMakesReportsNoOps(t *testing.T) {
	s := boundary.DefaultSizes()
	notified := 0
	sched := NewScheduler(0)
	c := NewController(twoChildren(s), sequential(s), Options{Scheduler: sched, OnResize: func(boundary.Boundary) { notified++ }})

	c.Report("actions[0]", "v1", boundary.New(180, 300))
	c.Close()
	c.Report("actions[1]", "v1", boundary.New(180, 300))

	if sched.Pending() {
		t.Error("closed controller still scheduled")
	}
	if c.Flush() {
		t.Error("Flush() after Close changed the layout")
	}
	if notified != 0 {
		t.Errorf("parent notified %d times after Close", notified)
	}
}

func TestResetKeepsOverridesForUnchangedChildren(t *testing.T) {
	s := boundary.DefaultSizes()
	c := NewController(twoChildren(s), sequential(s), Options{})
	c.Report("actions[0]", "v1", boundary.New(180, 100))
	c.Report("actions[1]", "v1", boundary.New(180, 100))
	c.Flush()

	c.Reset([]Child{
		{ID: "actions[0]", Version: "v1", Estimate: s.Default()},
		{ID: "actions[1]", Version: "v2", Estimate: s.Default()},
		{ID: "actions[2]", Version: "v1", Estimate: s.Default()},
	})

	want := 100 + 2*s.NodeHeight + 2*s.ElementGapY
	if c.Boundary().Height != want {
		t.Errorf("Height = %g, want %g", c.Boundary().Height, want)
	}
	if c.State() != Stable {
		t.Errorf("State() = %v, want stable", c.State())
	}

	// A late report for the replaced version is ignored.
	c.Report("actions[1]", "v1", boundary.New(180, 400))
	if c.Flush() {
		t.Error("stale report after Reset was applied")
	}
}

func TestSchedulerFlushesDeepestFirst(t *testing.T) {
	s := boundary.DefaultSizes()
	sched := NewScheduler(0)

	var parent *Controller
	parent = NewController(
		[]Child{{ID: "actions[0]", Version: "p", Estimate: s.Default()}},
		sequential(s),
		Options{ID: "root", Depth: 0, Scheduler: sched},
	)
	child := NewController(
		[]Child{{ID: "actions[0].actions[0]", Version: "c", Estimate: s.Default()}},
		sequential(s),
		Options{
			ID:        "actions[0]",
			Depth:     1,
			Scheduler: sched,
			OnResize:  func(b boundary.Boundary) { parent.Report("actions[0]", "p", b) },
		},
	)

	child.Report("actions[0].actions[0]", "c", boundary.New(180, 120))
	stats := sched.Tick()

	if !stats.Quiescent {
		t.Error("Tick() did not reach quiescence")
	}
	if stats.Passes != 1 || stats.Flushes != 2 || stats.Changed != 2 {
		t.Errorf("Tick() = %+v, want 1 pass, 2 flushes, 2 changes", stats)
	}
	if parent.Boundary().Height != 120 {
		t.Errorf("parent Height = %g, want 120", parent.Boundary().Height)
	}
	if parent.Runs() != 2 || child.Runs() != 2 {
		t.Errorf("runs parent=%d child=%d, want 2 each", parent.Runs(), child.Runs())
	}
}

func TestSchedulerMaxPasses(t *testing.T) {
	s := boundary.DefaultSizes()
	sched := NewScheduler(3)

	// A controller that grows on every flush never settles.
	var c *Controller
	height := 100.0
	c = NewController(
		[]Child{{ID: "a", Version: "v", Estimate: s.Default()}},
		sequential(s),
		Options{Scheduler: sched, OnResize: func(boundary.Boundary) {
			height += 10
			c.Report("a", "v", boundary.New(180, height))
		}},
	)
	c.Report("a", "v", boundary.New(180, height))

	stats := sched.Tick()
	if stats.Passes != 3 {
		t.Errorf("Passes = %d, want 3", stats.Passes)
	}
	if stats.Quiescent {
		t.Error("runaway controller reported quiescent")
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Initial: "initial", Reconciling: "reconciling", Stable: "stable", State(9): "unknown"} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}
