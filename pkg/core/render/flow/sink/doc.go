// Package sink writes positioned flowchart scenes to output formats.
//
// # Formats
//
//   - [RenderSVG]: vector output drawn by a [styles.Style]
//   - [RenderPNG]: raster output drawn natively with the embedded Go font
//   - [RenderPDF]: vector output converted from SVG with rsvg-convert
//   - [RenderJSON]: the scene in the [graph.Flowchart] wire format
//   - [ToDOT], [RenderDOTSVG]: the construct tree as a Graphviz graph
//
// All renderers are pure functions of the scene and their options, so equal
// scenes always produce equal bytes.
//
// [graph.Flowchart]: github.com/matzehuels/adaptiveflow/pkg/graph.Flowchart
package sink
