// Package graph provides serialization types for laid-out flowcharts.
//
// This package defines the canonical wire format for adaptiveflow's output,
// used for JSON files, API responses, caching, and cross-tool interoperability.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Flowchart], [Graph]: Serialization types (this package)
//   - pkg/core/render/flow.Scene: Internal positioned scene
//
// Use [FromScene]/[ToScene] and the Marshal/Read/Write functions to convert
// between them.
//
// # Core Types
//
//   - [Flowchart]: Positioned nodes, edge primitives, menus and the
//     focusable elements of a document
//   - [Graph]: Node-link form of the construct tree, for Graphviz export
//   - [Node], [Edge]: Structural types of [Graph]
//
// # Constants
//
// This package is the single source of truth for visualization constants:
//
//	graph.VizTypeFlowchart  // "flowchart"
//	graph.VizTypeTree       // "tree"
//	graph.StyleSimple       // "simple"
//	graph.StyleDark         // "dark"
//
// # Flowchart Serialization
//
// Common operations:
//
//	data, _ := graph.MarshalFlowchart(graph.FromScene(scene))  // Scene → []byte
//	fc, _ := graph.UnmarshalFlowchart(data)                    // []byte → Flowchart
//	scene, _ := graph.ToScene(fc)                              // Flowchart → Scene
//	graph.WriteFlowchartFile(fc, "layout.json")                // Flowchart → File
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
