// Package pkg holds the libraries behind adaptiveflow, a layout engine that
// turns declarative dialog documents into positioned flowcharts.
//
// # Overview
//
// A dialog document is a tree of actions: plain steps, if/else and switch
// branches, foreach loops and prompts. The engine measures every construct
// into a [boundary.Boundary], arranges children with per-kind layouters,
// reconciles estimates with measured sizes in a smart-layout pass, and
// derives edge geometry and a keyboard focus model from the result.
//
// The pkg directory is organized into three areas:
//
//  1. core/flow - the engine: input model, boundaries, transformers,
//     measurement, layouters, smart layout, edges and cursor navigation
//  2. core/render - composition of a whole document into a [flow.Scene]
//     and its SVG, PNG, PDF, JSON and DOT sinks
//  3. infrastructure - [pipeline], [cache], [config], [errors],
//     [observability], [graph], [watcher], [fonts] and [buildinfo]
//
// # Data Flow
//
//	dialog JSON
//	     ↓
//	dialog: parse, clone, select trigger
//	     ↓
//	measure: boundaries (cached by content hash)
//	     ↓
//	flow.Build: layouters + smart layout → Scene
//	     ↓
//	sink: SVG / PNG / PDF / JSON / DOT
//
// [pipeline.Runner] drives these steps for the CLI and the preview server
// and layers the boundary, scene and artifact caches.
//
// # Quick Start
//
//	doc, err := dialog.Parse(data, dialog.ParseOptions{})
//	if err != nil {
//	    return err
//	}
//	scene := flow.Build(doc, flow.DefaultOptions())
//	svg := sink.RenderSVG(scene, sink.WithMenus())
//
// [boundary.Boundary]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary#Boundary
// [flow.Scene]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/core/render/flow#Scene
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/observability
// [graph]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/graph
// [watcher]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/watcher
// [fonts]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/buildinfo
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/adaptiveflow/pkg/pipeline#Runner
package pkg
