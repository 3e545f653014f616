package sink

import (
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/graph"
)

// RenderJSON serializes the scene in the flowchart wire format, including
// the construct tree.
func RenderJSON(s *flow.Scene, opts ...graph.ExportOption) ([]byte, error) {
	return graph.MarshalFlowchart(graph.FromScene(s, append([]graph.ExportOption{graph.WithTree()}, opts...)...))
}
