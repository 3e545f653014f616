package graph

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeFlowchart = "flowchart"
	VizTypeTree      = "tree"
)

// Visual styles for rendering.
const (
	StyleSimple = "simple"
	StyleDark   = "dark"
)

// FormatVersion is the current version of the [Flowchart] format.
const FormatVersion = 1

// RootNodeID is the tree node id of a document root, whose structural path
// is empty.
const RootNodeID = "__root__"

// Node kinds.
const (
	KindContainer = "container"
	KindLeaf      = "leaf"
)

// =============================================================================
// Graph - Construct Tree Serialization
// =============================================================================

// Graph is the node-link form of a document's construct tree. Every
// container and drawn leaf is a node; every edge points from a construct to
// one of its slots.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one construct of the tree.
type Node struct {
	ID       string         `json:"id"`
	Label    string         `json:"label,omitempty"` // Display label (defaults to ID)
	Row      int            `json:"row,omitempty"`   // Nesting depth
	Kind     string         `json:"kind,omitempty"`  // "container" or "leaf"
	Type     string         `json:"type,omitempty"`  // Construct kind, e.g. "IfCondition"
	Disabled bool           `json:"disabled,omitempty"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// IsContainer returns true if this node lays out children.
func (n *Node) IsContainer() bool { return n.Kind == KindContainer }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge connects a construct to one of its slots.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label,omitempty"`
}

// =============================================================================
// Scene ↔ Graph Conversion
// =============================================================================

// TreeOf returns the construct tree of a scene. Nodes are listed in layout
// order, parents before children. Each leaf hangs off the nearest enclosing
// container.
func TreeOf(s *flow.Scene) Graph {
	var out Graph
	depth := make(map[string]int, len(s.Containers))
	root := ""
	for _, c := range s.Containers {
		depth[c.ID] = c.Depth
		if c.Depth == 0 {
			root = c.ID
		}
	}

	for _, c := range s.Containers {
		out.Nodes = append(out.Nodes, Node{
			ID:    nodeID(c.ID),
			Label: c.Kind,
			Row:   c.Depth,
			Kind:  KindContainer,
			Type:  c.Kind,
			Meta: map[string]any{
				"width":  c.Boundary.Width,
				"height": c.Boundary.Height,
				"state":  c.State,
			},
		})
		if c.Depth > 0 {
			p := enclosing(c.ID, depth, root)
			out.Edges = append(out.Edges, Edge{From: nodeID(p), To: nodeID(c.ID)})
		}
	}

	for _, n := range s.Nodes {
		if _, ok := depth[n.ID]; ok {
			continue // empty container drawn as its insert point
		}
		p := enclosing(n.ID, depth, root)
		label := n.Title
		if label == "" {
			label = n.Kind
		}
		out.Nodes = append(out.Nodes, Node{
			ID:       nodeID(n.ID),
			Label:    label,
			Row:      depth[p] + 1,
			Kind:     KindLeaf,
			Type:     n.Kind,
			Disabled: n.Disabled,
		})
		out.Edges = append(out.Edges, Edge{From: nodeID(p), To: nodeID(n.ID)})
	}
	return out
}

// enclosing walks up the structural path of id until it names a container.
// The root container is the fallback.
func enclosing(id string, containers map[string]int, root string) string {
	for p := dialog.Parent(id); p != ""; p = dialog.Parent(p) {
		if _, ok := containers[p]; ok {
			return p
		}
	}
	return root
}

func nodeID(path string) string {
	if path == "" {
		return RootNodeID
	}
	return path
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// Validate checks that edges reference known nodes and ids are unique.
func (g Graph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node with empty id")
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node %s", n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range g.Edges {
		if !seen[e.From] || !seen[e.To] {
			return fmt.Errorf("edge %s→%s references unknown node", e.From, e.To)
		}
	}
	return nil
}
