// Package pipeline provides the load → layout → render pipeline shared by
// the CLI, the watcher and the preview server.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Parse a dialog document and select the action list to lay out
//  2. Layout: Build a positioned scene with the flow layout engine
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON, DOT)
//
// Each stage can be run independently or as part of the complete pipeline.
// Scenes and artifacts are cached by content hash; boundary estimates are
// cached per construct, so editing one action only re-measures the
// constructs on its path to the root.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Source:   "dialog.json",
//	    Document: data,
//	    Formats:  []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adaptiveflow/pkg/cache"
	"github.com/matzehuels/adaptiveflow/pkg/config"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow/sink"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow/styles"
	"github.com/matzehuels/adaptiveflow/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultScale is the PNG pixel density.
	DefaultScale = sink.DefaultScale

	// DefaultMaxPasses bounds the smart layout reconciliation.
	DefaultMaxPasses = 64

	// DefaultStyle is the default visual style.
	DefaultStyle = styles.DefaultName
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// SupportedFormats lists the output formats in display order.
var SupportedFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
	FormatDOT:  "text/vnd.graphviz",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Source   string `json:"source,omitempty"` // Label used in logs and hooks
	Document []byte `json:"-"`
	Trigger  int    `json:"trigger,omitempty"` // Trigger index of an AdaptiveDialog

	// Layout options
	Sizes     boundary.Sizes `json:"sizes"`
	Smart     bool           `json:"smart"`
	FontSize  float64        `json:"font_size,omitempty"`
	MaxPasses int            `json:"max_passes,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	Menus    bool     `json:"menus"`
	Selected string   `json:"selected,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // DOT labels carry ids and sizes

	// Refresh bypasses the scene and artifact caches.
	Refresh bool `json:"refresh,omitempty"`

	// Logger for progress messages. Not serialized.
	Logger *log.Logger `json:"-"`
}

// OptionsFromConfig returns pipeline options seeded from configuration.
func OptionsFromConfig(c config.Config) Options {
	return Options{
		Sizes:     c.Sizes,
		Smart:     c.Render.Smart,
		FontSize:  c.Render.FontSize,
		MaxPasses: c.Render.MaxPasses,
		Formats:   append([]string(nil), c.Render.Formats...),
		Style:     c.Render.Style,
		Scale:     c.Render.Scale,
		Menus:     c.Render.Menus,
	}
}

// Result holds the outputs of a pipeline execution.
type Result struct {
	Document  *dialog.Document
	Scene     *flow.Scene
	SceneHash string
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains timing and size information.
type Stats struct {
	LoadTime    time.Duration
	LayoutTime  time.Duration
	RenderTime  time.Duration
	ActionCount int
	NodeCount   int
	EdgeCount   int
}

// CacheInfo records which stages were served from cache.
type CacheInfo struct {
	SceneHit  bool // Whether the scene came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	return errors.ValidateFormats([]string{format}, SupportedFormats)
}

// ValidateFormats checks that all formats are supported. An empty list is
// valid; defaults fill it in.
func ValidateFormats(formats []string) error {
	if len(formats) == 0 {
		return nil
	}
	return errors.ValidateFormats(formats, SupportedFormats)
}

// ValidateStyle checks that a style is registered.
func ValidateStyle(style string) error {
	if !styles.IsValid(style) {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults fills zero layout options.
func (o *Options) SetLayoutDefaults() {
	if o.Sizes == (boundary.Sizes{}) {
		o.Sizes = boundary.DefaultSizes()
	}
	if o.FontSize <= 0 {
		o.FontSize = flow.DefaultFontSize
	}
	if o.MaxPasses <= 0 {
		o.MaxPasses = DefaultMaxPasses
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults fills zero render options.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLoad checks that a document was supplied.
func (o *Options) ValidateForLoad() error {
	if len(o.Document) == 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "document is required")
	}
	if o.Trigger < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "trigger index must be non-negative")
	}
	if o.Source == "" {
		o.Source = "document"
	}
	return nil
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if o.Selected != "" {
		if err := errors.ValidateSelectionID(o.Selected); err != nil {
			return err
		}
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be positive")
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// SceneKeyOpts returns cache key options for layout.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Trigger:          o.Trigger,
		SizesFingerprint: o.Sizes.Fingerprint(),
		Smart:            o.Smart,
		FontSize:         o.FontSize,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPDF:
		k.Style, k.ShowMenus, k.Selected = o.Style, o.Menus, o.Selected
	case FormatPNG:
		k.Style, k.ShowMenus, k.Scale = o.Style, o.Menus, o.Scale
	case FormatDOT:
		k.Detailed = o.Detailed
	}
	return k
}
