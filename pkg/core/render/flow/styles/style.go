// Package styles defines the visual appearance of rendered flowcharts.
//
// A [Style] writes SVG fragments for the parts of a scene. Styles are
// palette driven so that raster sinks can reuse the same colors.
package styles

import (
	"bytes"
	"encoding/xml"
	"slices"
	"sort"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/edge"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/errors"
)

// Style defines the visual appearance for flowchart rendering.
type Style interface {
	// Name is the registry name of the style.
	Name() string
	// Palette returns the colors used by the style.
	Palette() Palette
	// RenderDefs writes SVG <defs> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderNode writes the SVG for one leaf shape and its text.
	RenderNode(buf *bytes.Buffer, n flow.Node)
	// RenderEdge writes the SVG for one edge.
	RenderEdge(buf *bytes.Buffer, e edge.Primitives)
	// RenderMenu writes the SVG for one insertion menu.
	RenderMenu(buf *bytes.Buffer, m flow.Menu)
}

// Palette holds CSS color values.
type Palette struct {
	Background string
	CardFill   string
	CardStroke string
	CardHeader string
	Title      string
	Text       string
	Link       string
	Edge       string
	Label      string
	Disabled   string
	Diamond    string
	Icon       string
	Menu       string
}

// EdgeColor resolves the color of an edge, honoring its color hint.
func (p Palette) EdgeColor(e edge.Primitives) string {
	switch e.Color {
	case "":
		return p.Edge
	case "disabled":
		return p.Disabled
	default:
		return e.Color
	}
}

var registry = map[string]Style{}

func register(s Style) { registry[s.Name()] = s }

// Lookup returns the style registered under name. The empty name selects
// the default style.
func Lookup(name string) (Style, error) {
	if name == "" {
		name = DefaultName
	}
	s, ok := registry[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (available: %v)", name, Names())
	}
	return s, nil
}

// Names lists the registered style names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsValid reports whether name is a registered style.
func IsValid(name string) bool {
	return slices.Contains(Names(), name)
}

// EscapeXML escapes s for use in SVG text and attributes.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
