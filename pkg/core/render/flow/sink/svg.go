package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow/styles"
)

// DefaultMargin is the blank border around a rendered scene.
const DefaultMargin = 10.0

const selectionCSS = `
    .selected > rect, rect.selected, polygon.selected { stroke-width: 3; }
    .menu { cursor: pointer; }`

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style    styles.Style
	menus    bool
	margin   float64
	selected string
}

func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }
func WithMenus() SVGOption               { return func(r *svgRenderer) { r.menus = true } }
func WithMargin(m float64) SVGOption     { return func(r *svgRenderer) { r.margin = m } }

// WithSelected highlights every node owned by the given selection id.
func WithSelected(id string) SVGOption { return func(r *svgRenderer) { r.selected = id } }

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple, margin: DefaultMargin}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style == nil {
		r.style = styles.Simple
	}
	return r
}

// RenderSVG draws the scene. Edges are drawn first so that shapes cover
// their ends; menus are drawn last.
func RenderSVG(s *flow.Scene, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := s.Width+2*r.margin, s.Height+2*r.margin
	origin := 0 - r.margin

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		origin, origin, w, h, w, h)
	r.style.RenderDefs(&buf)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", selectionCSS)

	for _, e := range s.Edges {
		r.style.RenderEdge(&buf, e)
	}
	for _, n := range s.Nodes {
		if r.selected == "" || n.Owner != r.selected {
			r.style.RenderNode(&buf, n)
			continue
		}
		fmt.Fprintf(&buf, `  <g class="selected" data-selected="%s">`+"\n", styles.EscapeXML(r.selected))
		r.style.RenderNode(&buf, n)
		buf.WriteString("  </g>\n")
	}
	if r.menus {
		for _, m := range s.Menus {
			r.style.RenderMenu(&buf, m)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
