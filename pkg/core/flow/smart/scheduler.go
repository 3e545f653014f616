package smart

import (
	"cmp"
	"sync"
)

// DefaultMaxPasses bounds one Tick.
const DefaultMaxPasses = 64

// Scheduler collects controllers with pending reports and flushes them in
// batches.
type Scheduler struct {
	mu        sync.Mutex
	dirty     map[*Controller]struct{}
	maxPasses int
}

// TickStats describes one Tick.
type TickStats struct {
	Passes    int
	Flushes   int
	Changed   int
	Quiescent bool
}

// NewScheduler returns a scheduler that runs at most maxPasses passes per
// tick. A non-positive value selects DefaultMaxPasses.
func NewScheduler(maxPasses int) *Scheduler {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	return &Scheduler{dirty: make(map[*Controller]struct{}), maxPasses: maxPasses}
}

func (s *Scheduler) markDirty(c *Controller) {
	s.mu.Lock()
	s.dirty[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Scheduler) forget(c *Controller) {
	s.mu.Lock()
	delete(s.dirty, c)
	s.mu.Unlock()
}

// Pending reports whether any controller awaits a flush.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirty) > 0
}

// Tick flushes dirty controllers, deepest first, and repeats while flushes
// dirty further controllers. Within one pass every controller is flushed at
// most once, so a parent dirtied by its child is flushed in the same pass,
// after it.
func (s *Scheduler) Tick() TickStats {
	var stats TickStats
	for stats.Passes < s.maxPasses {
		if !s.Pending() {
			stats.Quiescent = true
			return stats
		}
		stats.Passes++
		flushed := make(map[*Controller]bool)
		for {
			c := s.next(flushed)
			if c == nil {
				break
			}
			flushed[c] = true
			stats.Flushes++
			if c.Flush() {
				stats.Changed++
			}
		}
	}
	stats.Quiescent = !s.Pending()
	return stats
}

// next removes and returns the deepest dirty controller not yet flushed in
// this pass. Ties break by id.
func (s *Scheduler) next(skip map[*Controller]bool) *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *Controller
	for c := range s.dirty {
		if skip[c] {
			continue
		}
		if best == nil || deeper(c, best) {
			best = c
		}
	}
	if best != nil {
		delete(s.dirty, best)
	}
	return best
}

func deeper(a, b *Controller) bool {
	if d := cmp.Compare(a.Depth(), b.Depth()); d != 0 {
		return d > 0
	}
	return a.ID() < b.ID()
}
