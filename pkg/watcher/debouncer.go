package watcher

import (
	"context"
	"slices"
	"time"
)

// Debouncer coalesces bursts of changes. A batch is emitted once no change
// arrived for the quiet period, or once maxWait elapsed since the first
// change of the batch, whichever comes first.
type Debouncer struct {
	input       <-chan Change
	output      chan Change
	quietPeriod time.Duration
	maxWait     time.Duration
}

// NewDebouncer creates a debouncer reading from input.
func NewDebouncer(input <-chan Change, quietPeriod, maxWait time.Duration) *Debouncer {
	if maxWait < quietPeriod {
		maxWait = quietPeriod
	}
	return &Debouncer{
		input:       input,
		output:      make(chan Change, 4),
		quietPeriod: quietPeriod,
		maxWait:     maxWait,
	}
}

// Start begins processing changes.
func (d *Debouncer) Start(ctx context.Context) {
	go d.run(ctx)
}

// Output returns the channel of debounced changes. It is closed when the
// input closes or ctx is done; a pending batch is flushed first.
func (d *Debouncer) Output() <-chan Change {
	return d.output
}

func (d *Debouncer) run(ctx context.Context) {
	defer close(d.output)

	var (
		pending  Change
		quiet    *time.Timer
		deadline *time.Timer
	)
	timerC := func(t *time.Timer) <-chan time.Time {
		if t == nil {
			return nil
		}
		return t.C
	}
	flush := func() {
		if quiet != nil {
			quiet.Stop()
			quiet = nil
		}
		if deadline != nil {
			deadline.Stop()
			deadline = nil
		}
		if pending.Events == 0 {
			return
		}
		slices.Sort(pending.Paths)
		pending.Paths = slices.Compact(pending.Paths)
		pending.Timestamp = time.Now()
		d.output <- pending
		pending = Change{}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return

		case c, ok := <-d.input:
			if !ok {
				flush()
				return
			}
			pending.Paths = append(pending.Paths, c.Paths...)
			pending.Events += max(c.Events, 1)
			if quiet == nil {
				quiet = time.NewTimer(d.quietPeriod)
			} else {
				quiet.Reset(d.quietPeriod)
			}
			if deadline == nil {
				deadline = time.NewTimer(d.maxWait)
			}

		case <-timerC(quiet):
			quiet = nil
			flush()

		case <-timerC(deadline):
			deadline = nil
			flush()
		}
	}
}
