// Package layout positions measured children inside a container and emits
// the edges that connect them.
//
// Every layouter is a pure function of its inputs: it computes the container
// boundary with the matching rule from package boundary, writes each child's
// Offset relative to the container's top-left corner, and returns the edges
// as straight segments anchored in the same coordinate space. Running a
// layouter twice on the same input yields identical output.
package layout

import (
	"fmt"
	"strings"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
)

// Point is a position relative to a container origin.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// GraphNode is one layout unit: a measured construct and, once laid out,
// its position inside the parent.
type GraphNode struct {
	ID       string            `json:"id"`
	Data     dialog.Node       `json:"-"`
	Boundary boundary.Boundary `json:"boundary"`
	Offset   Point             `json:"offset"`
}

// NewNode returns an unpositioned node.
func NewNode(id string, data dialog.Node, b boundary.Boundary) GraphNode {
	return GraphNode{ID: id, Data: data, Boundary: b}
}

// Center is the node's axis point in parent coordinates.
func (n GraphNode) Center() Point {
	return Point{X: n.Offset.X + n.Boundary.AxisX, Y: n.Offset.Y + n.Boundary.AxisY}
}

// Bottom is the y coordinate of the node's lower edge in parent coordinates.
func (n GraphNode) Bottom() float64 { return n.Offset.Y + n.Boundary.Height }

// Right is the x coordinate of the node's right edge in parent coordinates.
func (n GraphNode) Right() float64 { return n.Offset.X + n.Boundary.Width }

// Direction is the direction an edge extends from its anchor.
type Direction int

const (
	Down Direction = iota
	Up
	Left
	Right
)

var directionNames = [...]string{Down: "down", Up: "up", Left: "left", Right: "right"}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Vector returns the unit step of d in screen coordinates (y grows down).
func (d Direction) Vector() (dx, dy float64) {
	switch d {
	case Up:
		return 0, -1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	default:
		return 0, 1
	}
}

// MarshalText encodes d by name.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(b []byte) error {
	for i, name := range directionNames {
		if strings.EqualFold(string(b), name) {
			*d = Direction(i)
			return nil
		}
	}
	return fmt.Errorf("unknown direction %q", b)
}

// EdgeOptions are the style flags of an edge.
type EdgeOptions struct {
	Directed bool   `json:"directed,omitempty"`
	Dashed   bool   `json:"dashed,omitempty"`
	Label    string `json:"label,omitempty"`
	Color    string `json:"color,omitempty"`
}

// Edge is one straight segment anchored at (X, Y) extending Length pixels
// in Direction. Connectors are composed of several edges.
type Edge struct {
	ID        string      `json:"id"`
	Direction Direction   `json:"direction"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Length    float64     `json:"length"`
	Options   EdgeOptions `json:"options"`
}

// End returns the point the edge extends to.
func (e Edge) End() Point {
	dx, dy := e.Direction.Vector()
	return Point{X: e.X + dx*e.Length, Y: e.Y + dy*e.Length}
}

// GraphLayout is the output of one layouter run for one container.
type GraphLayout struct {
	Boundary boundary.Boundary    `json:"boundary"`
	Nodes    map[string]GraphNode `json:"nodes"`
	// Order lists the keys of Nodes in layout order.
	Order []string `json:"order"`
	Edges []Edge   `json:"edges"`
}

// Node returns the laid-out node stored under name.
func (l GraphLayout) Node(name string) (GraphNode, bool) {
	n, ok := l.Nodes[name]
	return n, ok
}

// OrderedNodes returns the nodes in layout order.
func (l GraphLayout) OrderedNodes() []GraphNode {
	out := make([]GraphNode, 0, len(l.Order))
	for _, name := range l.Order {
		out = append(out, l.Nodes[name])
	}
	return out
}

// Edge returns the edge with the given id.
func (l GraphLayout) Edge(id string) (Edge, bool) {
	for _, e := range l.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// builder accumulates one layout. Zero-length edges are dropped on add.
type builder struct {
	out GraphLayout
}

func newBuilder(b boundary.Boundary) *builder {
	return &builder{out: GraphLayout{Boundary: b, Nodes: make(map[string]GraphNode)}}
}

func (b *builder) place(name string, n GraphNode, x, y float64) GraphNode {
	n.Offset = Point{X: x, Y: y}
	b.out.Nodes[name] = n
	b.out.Order = append(b.out.Order, name)
	return n
}

func (b *builder) edge(id string, dir Direction, x, y, length float64, opts EdgeOptions) {
	if length <= 0 {
		return
	}
	b.out.Edges = append(b.out.Edges, Edge{ID: id, Direction: dir, X: x, Y: y, Length: length, Options: opts})
}

var (
	arrow  = EdgeOptions{Directed: true}
	line   = EdgeOptions{}
	dashed = EdgeOptions{Dashed: true}
)
