// Package boundary defines the geometry value every construct is measured
// into, and the pure rules that combine child boundaries into a container
// boundary.
//
// A [Boundary] is a box size plus the single connector point of the box:
// AxisX is where the incoming and outgoing trunk lines attach on the top and
// bottom edges, AxisY is the vertical center used by side connectors.
//
// The combinators ([Sequence], [IfElse], [Switch], [Foreach], [BaseInput])
// never look at dialog JSON. They take child boundaries and [Sizes] and
// return a new Boundary, which makes them testable with synthetic inputs.
package boundary

import (
	"fmt"
	"math"
)

// Boundary is an immutable box size with its connector axis.
// Invariant: 0 <= AxisX <= Width and 0 <= AxisY <= Height.
type Boundary struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	AxisX  float64 `json:"axis_x"`
	AxisY  float64 `json:"axis_y"`
}

// New returns a width x height boundary with its axis at the center.
func New(width, height float64) Boundary {
	return Boundary{Width: width, Height: height, AxisX: width / 2, AxisY: height / 2}
}

// RightHalf is the width to the right of the axis.
func (b Boundary) RightHalf() float64 {
	return b.Width - b.AxisX
}

// Valid reports whether the axis lies inside the box and sizes are finite
// and non-negative.
func (b Boundary) Valid() bool {
	for _, v := range []float64{b.Width, b.Height, b.AxisX, b.AxisY} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return false
		}
	}
	return b.AxisX <= b.Width && b.AxisY <= b.Height
}

func (b Boundary) String() string {
	return fmt.Sprintf("%gx%g@(%g,%g)", b.Width, b.Height, b.AxisX, b.AxisY)
}

// Sizes holds the presentation constants of the flowchart. Only the
// relations between them carry meaning; the pixel values are tuning.
type Sizes struct {
	NodeWidth               float64 `json:"node_width" toml:"node_width" koanf:"node_width"`
	NodeHeight              float64 `json:"node_height" toml:"node_height" koanf:"node_height"`
	DiamondWidth            float64 `json:"diamond_width" toml:"diamond_width" koanf:"diamond_width"`
	DiamondHeight           float64 `json:"diamond_height" toml:"diamond_height" koanf:"diamond_height"`
	LoopIconSize            float64 `json:"loop_icon_size" toml:"loop_icon_size" koanf:"loop_icon_size"`
	IconBrickSize           float64 `json:"icon_brick_size" toml:"icon_brick_size" koanf:"icon_brick_size"`
	InsertPointSize         float64 `json:"insert_point_size" toml:"insert_point_size" koanf:"insert_point_size"`
	TerminatorSize          float64 `json:"terminator_size" toml:"terminator_size" koanf:"terminator_size"`
	ElementGapY             float64 `json:"element_gap_y" toml:"element_gap_y" koanf:"element_gap_y"`
	BranchGapX              float64 `json:"branch_gap_x" toml:"branch_gap_x" koanf:"branch_gap_x"`
	BranchGapY              float64 `json:"branch_gap_y" toml:"branch_gap_y" koanf:"branch_gap_y"`
	MinBranchAxisSeparation float64 `json:"min_branch_axis_separation" toml:"min_branch_axis_separation" koanf:"min_branch_axis_separation"`
	LoopMarginLeft          float64 `json:"loop_margin_left" toml:"loop_margin_left" koanf:"loop_margin_left"`
	InvalidPromptMarginX    float64 `json:"invalid_prompt_margin_x" toml:"invalid_prompt_margin_x" koanf:"invalid_prompt_margin_x"`
}

// DefaultSizes returns the stock flowchart constants.
func DefaultSizes() Sizes {
	return Sizes{
		NodeWidth:               180,
		NodeHeight:              62,
		DiamondWidth:            50,
		DiamondHeight:           20,
		LoopIconSize:            16,
		IconBrickSize:           16,
		InsertPointSize:         16,
		TerminatorSize:          14,
		ElementGapY:             20,
		BranchGapX:              50,
		BranchGapY:              20,
		MinBranchAxisSeparation: 150,
		LoopMarginLeft:          20,
		InvalidPromptMarginX:    30,
	}
}

// Default is the standard node boundary, used for atomic actions and for
// any construct the engine does not recognize.
func (s Sizes) Default() Boundary { return New(s.NodeWidth, s.NodeHeight) }

func (s Sizes) Diamond() Boundary     { return New(s.DiamondWidth, s.DiamondHeight) }
func (s Sizes) LoopIcon() Boundary    { return New(s.LoopIconSize, s.LoopIconSize) }
func (s Sizes) IconBrick() Boundary   { return New(s.IconBrickSize, s.IconBrickSize) }
func (s Sizes) InsertPoint() Boundary { return New(s.InsertPointSize, s.InsertPointSize) }
func (s Sizes) Terminator() Boundary  { return New(s.TerminatorSize, s.TerminatorSize) }

// Fingerprint identifies the constant set. Boundaries measured under
// different Sizes must never share a cache entry.
func (s Sizes) Fingerprint() string {
	return fmt.Sprintf("%g/%g/%g/%g/%g/%g/%g/%g/%g/%g/%g/%g/%g/%g",
		s.NodeWidth, s.NodeHeight, s.DiamondWidth, s.DiamondHeight,
		s.LoopIconSize, s.IconBrickSize, s.InsertPointSize, s.TerminatorSize,
		s.ElementGapY, s.BranchGapX, s.BranchGapY, s.MinBranchAxisSeparation,
		s.LoopMarginLeft, s.InvalidPromptMarginX)
}
