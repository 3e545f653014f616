// Package measure estimates the boundary of any construct before it is
// rendered.
//
// [Measurer.Measure] dispatches on the construct kind, decomposes containers
// through the transformers, measures the parts recursively and combines them
// with the boundary rules. Results are memoized in an injected [Cache] keyed
// by a content hash of the construct JSON, so identical subtrees are only
// measured once no matter where they appear in the document.
package measure

import (
	"sync/atomic"

	"github.com/matzehuels/adaptiveflow/pkg/cache"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/transform"
	"github.com/matzehuels/adaptiveflow/pkg/observability"
)

// Measurer estimates construct boundaries. It is safe for concurrent use
// when its Cache is.
type Measurer struct {
	sizes       boundary.Sizes
	fingerprint string
	cache       Cache
	keyer       cache.Keyer
	computed    atomic.Int64
}

// New returns a Measurer for the given size constants. A nil cache disables
// memoization.
func New(sizes boundary.Sizes, c Cache) *Measurer {
	if c == nil {
		c = None{}
	}
	return &Measurer{
		sizes:       sizes,
		fingerprint: sizes.Fingerprint(),
		cache:       c,
		keyer:       cache.NewDefaultKeyer(),
	}
}

// Sizes returns the size constants the Measurer was built with.
func (m *Measurer) Sizes() boundary.Sizes { return m.sizes }

// Computed returns how many boundaries were computed rather than served from
// the cache.
func (m *Measurer) Computed() int64 { return m.computed.Load() }

// Key returns the cache key of n: a SHA-256 over its canonical JSON, scoped
// to the size constants.
func (m *Measurer) Key(n dialog.Node) string {
	return m.keyer.BoundaryKey(m.fingerprint, cache.Hash(dialog.Canonical(n)))
}

// Measure returns the estimated boundary of n. It never fails: unknown
// kinds measure as the default node.
func (m *Measurer) Measure(n dialog.Node) boundary.Boundary {
	kind := n.Kind()
	key := m.Key(n)
	if b, ok := m.cache.Get(key); ok {
		observability.Layout().OnMeasure(kind.String(), true)
		return b
	}
	b := m.compute(n, kind)
	m.computed.Add(1)
	m.cache.Set(key, b)
	observability.Layout().OnMeasure(kind.String(), false)
	return b
}

// MeasureAll measures every node in order.
func (m *Measurer) MeasureAll(nodes []dialog.IndexedNode) []boundary.Boundary {
	out := make([]boundary.Boundary, len(nodes))
	for i, n := range nodes {
		out[i] = m.Measure(n.JSON)
	}
	return out
}

func (m *Measurer) compute(n dialog.Node, kind dialog.Kind) boundary.Boundary {
	s := m.sizes
	switch kind {
	case dialog.KindSequence:
		return boundary.Sequence(s, m.MeasureAll(transform.Group(n, "")), true, true)
	case dialog.KindStepGroup:
		return boundary.Sequence(s, m.MeasureAll(transform.Group(n, "")), false, false)
	case dialog.KindIfCondition:
		t := transform.IfCondition(n, "")
		return boundary.IfElse(s,
			m.Measure(t.Condition.JSON), m.Measure(t.Choice.JSON),
			m.Measure(t.If.JSON), m.Measure(t.Else.JSON))
	case dialog.KindSwitchCondition:
		t := transform.SwitchCondition(n, "")
		branches := make([]boundary.Boundary, len(t.Branches))
		for i, br := range t.Branches {
			branches[i] = m.Measure(br.Node.JSON)
		}
		return boundary.Switch(s, m.Measure(t.Condition.JSON), m.Measure(t.Choice.JSON), branches)
	case dialog.KindForeach:
		t := transform.ForeachLoop(n, "")
		return boundary.Foreach(s,
			m.Measure(t.Header.JSON), m.Measure(t.Body.JSON),
			m.Measure(t.LoopBegin.JSON), m.Measure(t.LoopEnd.JSON))
	case dialog.KindBaseInput:
		t := transform.BaseInput(n, "")
		return boundary.BaseInput(s,
			m.Measure(t.BotAsks.JSON), m.Measure(t.UserAnswers.JSON), m.Measure(t.InvalidPrompt.JSON))
	case dialog.KindChoiceDiamond:
		return s.Diamond()
	case dialog.KindLoopIndicator:
		return s.LoopIcon()
	case dialog.KindInvalidPromptBrick:
		return s.IconBrick()
	default:
		return s.Default()
	}
}
