package layout

import (
	"fmt"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
)

// Branch labels of an if/else.
const (
	LabelTrue  = "True"
	LabelFalse = "False"
)

// IfElse lays out a condition node, a choice diamond and two branches.
func IfElse(s boundary.Sizes, condition, choice, ifNode, elseNode GraphNode) GraphLayout {
	row := boundary.IfElseRow(s, ifNode.Boundary, elseNode.Boundary)
	return branches(s, condition, choice, row, []float64{s.BranchGapX},
		[]GraphNode{ifNode, elseNode}, []string{NameIf, NameElse}, []string{LabelTrue, LabelFalse})
}

// Switch lays out a condition node, a choice diamond and N labelled
// branches, default first. labels may be shorter than nodes.
func Switch(s boundary.Sizes, condition, choice GraphNode, nodes []GraphNode, labels []string) GraphLayout {
	bs := make([]boundary.Boundary, len(nodes))
	names := make([]string, len(nodes))
	full := make([]string, len(nodes))
	for i, n := range nodes {
		bs[i] = n.Boundary
		names[i] = BranchName(i)
		if i < len(labels) {
			full[i] = labels[i]
		}
	}
	return branches(s, condition, choice, boundary.SwitchRow(s, bs), boundary.SwitchGaps(s, bs), nodes, names, full)
}

func branches(s boundary.Sizes, condition, choice GraphNode, row boundary.Boundary, gaps []float64, nodes []GraphNode, names, labels []string) GraphLayout {
	b := newBuilder(boundary.Branches(s, condition.Boundary, choice.Boundary, row))
	axis := b.out.Boundary.AxisX

	condition = b.place(NameCondition, condition, axis-condition.Boundary.AxisX, 0)
	b.edge("branch/condition", Down, axis, condition.Bottom(), s.ElementGapY, arrow)
	choice = b.place(NameChoice, choice, axis-choice.Boundary.AxisX, condition.Bottom()+s.ElementGapY)

	half := s.BranchGapY / 2
	baselineY := choice.Bottom() + half
	rowTop := choice.Bottom() + s.BranchGapY
	rowBottom := rowTop + row.Height
	bottomlineY := rowBottom + half
	b.edge("branch/trunk", Down, axis, choice.Bottom(), half, line)

	x := axis - row.AxisX
	axes := make([]float64, len(nodes))
	minX, maxX := axis, axis
	for i, n := range nodes {
		if i > 0 {
			x += gaps[i-1]
		}
		placed := b.place(names[i], n, x, rowTop)
		axes[i] = placed.Offset.X + n.Boundary.AxisX
		minX, maxX = min(minX, axes[i]), max(maxX, axes[i])
		x = placed.Right()
	}

	multi := len(nodes) > 1
	if multi {
		b.edge("branch/baseline", Right, minX, baselineY, maxX-minX, line)
	}
	for i := range nodes {
		opts := arrow
		opts.Label = labels[i]
		b.edge(fmt.Sprintf("branch/drop/%d", i), Down, axes[i], baselineY, half, opts)
	}
	for i, n := range nodes {
		bottom := rowTop + n.Boundary.Height
		b.edge(fmt.Sprintf("branch/join/%d", i), Down, axes[i], bottom, bottomlineY-bottom, line)
	}
	if multi {
		b.edge("branch/bottomline", Right, minX, bottomlineY, maxX-minX, line)
	}
	b.edge("branch/out", Down, axis, bottomlineY, half, line)
	return b.out
}
