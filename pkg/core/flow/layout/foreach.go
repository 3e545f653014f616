package layout

import "github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"

// Foreach stacks the loop header, the loop-begin marker, the body and the
// loop-end marker, and routes a dashed loop-back edge along the left margin
// from the end marker up to the begin marker.
func Foreach(s boundary.Sizes, header, loopBegin, body, loopEnd GraphNode) GraphLayout {
	b := newBuilder(boundary.Foreach(s, header.Boundary, body.Boundary, loopBegin.Boundary, loopEnd.Boundary))
	axis := b.out.Boundary.AxisX
	gap := s.ElementGapY

	header = b.place(NameHeader, header, axis-header.Boundary.AxisX, 0)
	b.edge("foreach/header", Down, axis, header.Bottom(), gap, arrow)

	loopBegin = b.place(NameLoopBegin, loopBegin, axis-loopBegin.Boundary.AxisX, header.Bottom()+gap)
	b.edge("foreach/begin", Down, axis, loopBegin.Bottom(), gap, arrow)

	body = b.place(NameBody, body, axis-body.Boundary.AxisX, loopBegin.Bottom()+gap)
	b.edge("foreach/body", Down, axis, body.Bottom(), gap, arrow)

	loopEnd = b.place(NameLoopEnd, loopEnd, axis-loopEnd.Boundary.AxisX, body.Bottom()+gap)

	beginY := loopBegin.Center().Y
	endY := loopEnd.Center().Y
	b.edge("foreach/loop-out", Left, loopEnd.Offset.X, endY, loopEnd.Offset.X, line)
	b.edge("foreach/loop-back", Up, 0, endY, endY-beginY, dashed)
	b.edge("foreach/loop-in", Right, 0, beginY, loopBegin.Offset.X, arrow)
	return b.out
}
