// Package flow is the layout engine that turns a declarative dialog-action tree
// into flowchart geometry.
//
// # Overview
//
// The engine works bottom-up over the action tree. Every construct (sequence,
// if/else, switch/case, foreach, prompt input, atomic action) is decomposed by
// a transformer into named sub-nodes, each sub-node is measured into a
// [boundary.Boundary], and a layouter arranges the measured children inside
// their container and emits the connecting edges.
//
// The subpackages, leaves first:
//
//   - [dialog]: input model, the closed construct-kind union and IndexedNode
//   - [boundary]: the Boundary value type, presentation sizes and the pure
//     boundary combinators
//   - [transform]: one decomposition function per construct kind
//   - [measure]: the cache-aware pre-render size estimator
//   - [layout]: per-construct layouters producing offsets and edges
//   - [smart]: the convergence controller that reconciles estimates with
//     measured sizes
//   - [edge]: edge geometry (lines, arrowheads, labels)
//   - [cursor]: spatial and hierarchical keyboard navigation
//
// A whole-document composition of these pieces lives in
// [github.com/matzehuels/adaptiveflow/pkg/core/render/flow].
//
// [dialog]: github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog
// [boundary]: github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary
// [transform]: github.com/matzehuels/adaptiveflow/pkg/core/flow/transform
// [measure]: github.com/matzehuels/adaptiveflow/pkg/core/flow/measure
// [layout]: github.com/matzehuels/adaptiveflow/pkg/core/flow/layout
// [smart]: github.com/matzehuels/adaptiveflow/pkg/core/flow/smart
// [edge]: github.com/matzehuels/adaptiveflow/pkg/core/flow/edge
// [cursor]: github.com/matzehuels/adaptiveflow/pkg/core/flow/cursor
package flow
