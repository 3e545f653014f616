// Package cli implements the adaptiveflow command-line interface.
//
// The CLI is built using cobra; configuration is layered with koanf from
// adaptiveflow.toml, ADAPTIVEFLOW_* environment variables and flags (see
// package config).
//
// # Commands
//
// The main commands are:
//   - layout: Compute the positioned flowchart of a dialog document as JSON
//   - render: Generate SVG, PNG, PDF, JSON or DOT output
//   - inspect: Print construct boundaries and selectable ids as a table
//   - navigate: Walk the flowchart interactively with the keyboard
//   - watch: Re-render a document whenever it changes on disk
//   - serve: Run the HTTP preview API
//   - cache, config: Manage the cache and the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs pipeline and cache events. Loggers are passed through
// context.Context to allow structured progress tracking.
package cli
