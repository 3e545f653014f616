// Package edge turns abstract layout edges into drawing primitives: a line
// segment, an optional arrowhead made of two angled strokes, and an optional
// label placed next to the line.
//
// Dashed is a style flag only and never changes geometry. Edges whose length
// is zero or negative produce no primitives at all.
package edge

import (
	"math"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/layout"
)

// Segment is a straight stroke from (X1, Y1) to (X2, Y2).
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Length returns the Euclidean length of s.
func (s Segment) Length() float64 {
	return math.Hypot(s.X2-s.X1, s.Y2-s.Y1)
}

// Label is positioned text.
type Label struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// Primitives are the drawable parts of one edge.
type Primitives struct {
	ID     string    `json:"id"`
	Line   Segment   `json:"line"`
	Arrow  []Segment `json:"arrow,omitempty"`
	Label  *Label    `json:"label,omitempty"`
	Dashed bool      `json:"dashed,omitempty"`
	Color  string    `json:"color,omitempty"`
}

// Options tunes arrowheads and label placement.
type Options struct {
	// ArrowLength is the length of each arrowhead stroke.
	ArrowLength float64
	// ArrowAngle is the angle between each stroke and the line, in degrees.
	ArrowAngle float64
	// LabelOffsets moves a label away from the edge anchor, per direction.
	LabelOffsets map[layout.Direction]layout.Point
}

// DefaultOptions returns the stock arrow and label geometry. Labels sit to
// the right of vertical edges and above horizontal ones.
func DefaultOptions() Options {
	return Options{
		ArrowLength: 6,
		ArrowAngle:  35,
		LabelOffsets: map[layout.Direction]layout.Point{
			layout.Down:  {X: 6, Y: 4},
			layout.Up:    {X: 6, Y: -4},
			layout.Right: {X: 4, Y: -6},
			layout.Left:  {X: -4, Y: -6},
		},
	}
}

// Render converts e into primitives. It returns nil for edges of length
// zero or less.
func Render(e layout.Edge, opts Options) *Primitives {
	if e.Length <= 0 || math.IsNaN(e.Length) {
		return nil
	}
	end := e.End()
	p := &Primitives{
		ID:     e.ID,
		Line:   Segment{X1: e.X, Y1: e.Y, X2: end.X, Y2: end.Y},
		Dashed: e.Options.Dashed,
		Color:  e.Options.Color,
	}
	if e.Options.Directed {
		p.Arrow = arrowhead(e.Direction, end, opts)
	}
	if e.Options.Label != "" {
		off := opts.LabelOffsets[e.Direction]
		p.Label = &Label{X: e.X + off.X, Y: e.Y + off.Y, Text: e.Options.Label}
	}
	return p
}

// RenderAll converts every drawable edge, dropping the ones Render rejects.
func RenderAll(edges []layout.Edge, opts Options) []Primitives {
	out := make([]Primitives, 0, len(edges))
	for _, e := range edges {
		if p := Render(e, opts); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// arrowhead returns two strokes meeting at tip, opening back along dir.
func arrowhead(dir layout.Direction, tip layout.Point, opts Options) []Segment {
	dx, dy := dir.Vector()
	back := math.Atan2(-dy, -dx)
	spread := opts.ArrowAngle * math.Pi / 180

	strokes := make([]Segment, 0, 2)
	for _, a := range []float64{back - spread, back + spread} {
		strokes = append(strokes, Segment{
			X1: round(tip.X + opts.ArrowLength*math.Cos(a)),
			Y1: round(tip.Y + opts.ArrowLength*math.Sin(a)),
			X2: tip.X,
			Y2: tip.Y,
		})
	}
	return strokes
}

// round trims float noise from trigonometry so output stays stable.
func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
