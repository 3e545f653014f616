package flow

import (
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/cursor"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/edge"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/measure"
)

// Scene is a fully positioned flowchart.
type Scene struct {
	Path       string            `json:"path,omitempty"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Boundary   boundary.Boundary `json:"boundary"`
	Nodes      []Node            `json:"nodes"`
	Edges      []edge.Primitives `json:"edges"`
	Menus      []Menu            `json:"menus,omitempty"`
	Elements   []cursor.Element  `json:"elements"`
	Containers []Container       `json:"containers"`
	Stats      Stats             `json:"stats"`
}

// Node is one drawn leaf.
type Node struct {
	ID       string   `json:"id"`
	Owner    string   `json:"owner"`
	Kind     string   `json:"kind"`
	SDKKind  string   `json:"sdk_kind,omitempty"`
	Shape    Shape    `json:"shape"`
	Title    string   `json:"title,omitempty"`
	Lines    []string `json:"lines,omitempty"`
	Link     string   `json:"link,omitempty"`
	Disabled bool     `json:"disabled,omitempty"`
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	W        float64  `json:"w"`
	H        float64  `json:"h"`
}

// Bounds returns the node's rect.
func (n Node) Bounds() cursor.Rect {
	return cursor.Rect{X: n.X, Y: n.Y, Width: n.W, Height: n.H}
}

// Menu is an insertion point on a sequence edge. Inserting there places a
// new action at Index of the array at ArrayPath.
type Menu struct {
	ID        string  `json:"id"`
	ArrayPath string  `json:"array_path"`
	Index     int     `json:"index"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Size      float64 `json:"size"`
}

// Bounds returns the menu's rect.
func (m Menu) Bounds() cursor.Rect {
	return cursor.Rect{X: m.X - m.Size/2, Y: m.Y - m.Size/2, Width: m.Size, Height: m.Size}
}

// Container summarizes one laid-out construct.
type Container struct {
	ID       string            `json:"id"`
	Kind     string            `json:"kind"`
	Depth    int               `json:"depth"`
	X        float64           `json:"x"`
	Y        float64           `json:"y"`
	Estimate boundary.Boundary `json:"estimate"`
	Boundary boundary.Boundary `json:"boundary"`
	State    string            `json:"state"`
}

// Stats describes the work done by Build.
type Stats struct {
	Computed int64 `json:"computed"`
	Reports  int   `json:"reports"`
	Passes   int   `json:"passes"`
	Flushes  int   `json:"flushes"`
	Settled  bool  `json:"settled"`
}

// Options configures Build.
type Options struct {
	Sizes boundary.Sizes
	// Cache memoizes estimates across builds. Nil uses a fresh LRU.
	Cache measure.Cache
	// Smart reconciles estimates with the measured size of card text.
	Smart bool
	// Text measures label text. Nil uses ApproxMeasurer(FontSize).
	Text     TextMeasurer
	FontSize float64
	// Menus adds insertion points on sequence edges.
	Menus     bool
	Edge      edge.Options
	MaxPasses int
}

// DefaultOptions returns options with stock sizes and edge geometry.
func DefaultOptions() Options {
	return Options{
		Sizes:    boundary.DefaultSizes(),
		FontSize: DefaultFontSize,
		Menus:    true,
		Edge:     edge.DefaultOptions(),
	}
}

// Node returns the node with the given id.
func (s *Scene) Node(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Edge returns the edge with the given id.
func (s *Scene) Edge(id string) (edge.Primitives, bool) {
	for _, e := range s.Edges {
		if e.ID == id {
			return e, true
		}
	}
	return edge.Primitives{}, false
}

// SelectableIDs returns the distinct selection ids in selection order.
func (s *Scene) SelectableIDs() []string {
	return cursor.SelectableIDs(s.Elements)
}
