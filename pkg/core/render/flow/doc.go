// Package flow composes the layout engine into a positioned scene for a
// whole dialog document.
//
// [Build] walks the action tree, estimates every construct with
// [measure.Measurer], attaches a [smart.Controller] to every container and,
// when smart layout is enabled, feeds the controllers the real sizes of the
// cards as measured from their wrapped text. The converged layouts are then
// flattened into absolute coordinates:
//
//   - Nodes: every drawn leaf (cards, diamonds, loop icons, invalid-prompt
//     bricks, insert points of empty branches)
//   - Edges: drawing primitives from package edge
//   - Menus: insertion points on sequence edges
//   - Elements: the focusable items consumed by package cursor
//
// A Scene is plain data with JSON tags. Sinks in package sink turn it into
// SVG, PNG, PDF, JSON or DOT.
//
// [measure.Measurer]: github.com/matzehuels/adaptiveflow/pkg/core/flow/measure
// [smart.Controller]: github.com/matzehuels/adaptiveflow/pkg/core/flow/smart
package flow
