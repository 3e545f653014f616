package layout

import (
	"fmt"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
)

// Slot names used as GraphLayout.Nodes keys.
const (
	NameCondition     = "condition"
	NameChoice        = "choice"
	NameIf            = "if"
	NameElse          = "else"
	NameHeader        = "header"
	NameLoopBegin     = "loopBegin"
	NameBody          = "body"
	NameLoopEnd       = "loopEnd"
	NameBotAsks       = "botAsks"
	NameUserAnswers   = "userAnswers"
	NameInvalidPrompt = "invalidPrompt"
)

// StepName is the node key of the i-th child of a sequence.
func StepName(i int) string { return fmt.Sprintf("step[%d]", i) }

// BranchName is the node key of the i-th branch of a switch.
func BranchName(i int) string { return fmt.Sprintf("branch[%d]", i) }

// Sequential stacks nodes on one vertical spine. head and tail add half-gap
// stubs above the first and below the last child. An empty list yields an
// insert-point boundary with no nodes and no edges.
func Sequential(s boundary.Sizes, head, tail bool, nodes ...GraphNode) GraphLayout {
	bs := make([]boundary.Boundary, len(nodes))
	for i, n := range nodes {
		bs[i] = n.Boundary
	}
	b := newBuilder(boundary.Sequence(s, bs, head, tail))
	if len(nodes) == 0 {
		return b.out
	}

	axis := b.out.Boundary.AxisX
	y := 0.0
	if head {
		b.edge("seq/head", Down, axis, 0, s.ElementGapY/2, line)
		y = s.ElementGapY / 2
	}
	for i, n := range nodes {
		placed := b.place(StepName(i), n, axis-n.Boundary.AxisX, y)
		y = placed.Bottom()
		if i < len(nodes)-1 {
			b.edge(fmt.Sprintf("seq/%d", i), Down, axis, y, s.ElementGapY, arrow)
			y += s.ElementGapY
		}
	}
	if tail {
		b.edge("seq/tail", Down, axis, y, s.ElementGapY/2, line)
	}
	return b.out
}
