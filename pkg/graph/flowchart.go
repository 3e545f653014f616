package graph

import (
	"fmt"
	"math"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/cursor"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/edge"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
)

// =============================================================================
// Flowchart - Positioned Layout
// =============================================================================

// Flowchart is the serialization format of a laid-out document.
//
// Coordinates are absolute, in the unscaled units of the layout, with the
// document's top-left corner at the origin. Selectable lists the selection
// ids in selection order, so that clients can implement range selection
// without re-deriving the ordering.
type Flowchart struct {
	VizType    string            `json:"viz_type"`
	Version    int               `json:"version"`
	Path       string            `json:"path,omitempty"`
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Boundary   boundary.Boundary `json:"boundary"`
	Nodes      []flow.Node       `json:"nodes"`
	Edges      []edge.Primitives `json:"edges"`
	Menus      []flow.Menu       `json:"menus,omitempty"`
	Elements   []cursor.Element  `json:"elements"`
	Selectable []string          `json:"selectable"`
	Containers []flow.Container  `json:"containers,omitempty"`
	Tree       *Graph            `json:"tree,omitempty"`
	Stats      *flow.Stats       `json:"stats,omitempty"`
}

// ExportOption configures [FromScene].
type ExportOption func(*exporter)

type exporter struct {
	tree  bool
	stats bool
}

// WithTree includes the construct tree.
func WithTree() ExportOption { return func(e *exporter) { e.tree = true } }

// WithStats includes the build statistics. They describe how the scene was
// computed, not what it looks like, so they are left out by default to keep
// equal layouts byte-identical.
func WithStats() ExportOption { return func(e *exporter) { e.stats = true } }

// FromScene converts a scene to its serialization format.
func FromScene(s *flow.Scene, opts ...ExportOption) Flowchart {
	var e exporter
	for _, opt := range opts {
		opt(&e)
	}
	fc := Flowchart{
		VizType:    VizTypeFlowchart,
		Version:    FormatVersion,
		Path:       s.Path,
		Width:      s.Width,
		Height:     s.Height,
		Boundary:   s.Boundary,
		Nodes:      nonNil(s.Nodes),
		Edges:      nonNil(s.Edges),
		Menus:      s.Menus,
		Elements:   nonNil(s.Elements),
		Selectable: nonNil(s.SelectableIDs()),
		Containers: s.Containers,
	}
	if e.tree {
		t := TreeOf(s)
		fc.Tree = &t
	}
	if e.stats {
		st := s.Stats
		fc.Stats = &st
	}
	return fc
}

// ToScene converts a serialized flowchart back to a scene.
// Returns an error for unknown formats and invalid geometry.
func ToScene(fc Flowchart) (*flow.Scene, error) {
	if fc.VizType != VizTypeFlowchart {
		return nil, fmt.Errorf("viz_type %q is not %q", fc.VizType, VizTypeFlowchart)
	}
	if fc.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported version %d", fc.Version)
	}
	if !finite(fc.Width, fc.Height) || fc.Width < 0 || fc.Height < 0 {
		return nil, fmt.Errorf("invalid size %gx%g", fc.Width, fc.Height)
	}
	if !fc.Boundary.Valid() {
		return nil, fmt.Errorf("invalid boundary %v", fc.Boundary)
	}
	for _, n := range fc.Nodes {
		if n.ID == "" && n.Shape != flow.ShapeInsertPoint {
			return nil, fmt.Errorf("node with empty id")
		}
		if !finite(n.X, n.Y, n.W, n.H) {
			return nil, fmt.Errorf("node %s: invalid geometry", n.ID)
		}
	}

	s := &flow.Scene{
		Path:       fc.Path,
		Width:      fc.Width,
		Height:     fc.Height,
		Boundary:   fc.Boundary,
		Nodes:      fc.Nodes,
		Edges:      fc.Edges,
		Menus:      fc.Menus,
		Elements:   fc.Elements,
		Containers: fc.Containers,
	}
	if fc.Stats != nil {
		s.Stats = *fc.Stats
	}
	return s, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
