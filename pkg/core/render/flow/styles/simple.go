package styles

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/edge"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/fonts"
)

// DefaultName is the style used when none is requested.
const DefaultName = "simple"

// Text metrics shared with the scene builder.
const (
	padding    = 8
	fontSize   = flow.DefaultFontSize
	lineHeight = fontSize * 1.3
)

// Flat draws cards as rounded rectangles with a colored header band.
type Flat struct {
	name    string
	palette Palette
}

// Simple is the light default style.
var Simple = Flat{name: DefaultName, palette: Palette{
	Background: "#ffffff",
	CardFill:   "#ffffff",
	CardStroke: "#333",
	CardHeader: "#e8eef7",
	Title:      "#1b1b1b",
	Text:       "#444",
	Link:       "#0b57d0",
	Edge:       "#333",
	Label:      "#555",
	Disabled:   "#aaa",
	Diamond:    "#f3f3f3",
	Icon:       "#666",
	Menu:       "#0b57d0",
}}

// Dark is a dark-background variant.
var Dark = Flat{name: "dark", palette: Palette{
	Background: "#1e1f22",
	CardFill:   "#2b2d31",
	CardStroke: "#9aa0a6",
	CardHeader: "#3c4043",
	Title:      "#f1f3f4",
	Text:       "#d2d4d7",
	Link:       "#8ab4f8",
	Edge:       "#c4c7c5",
	Label:      "#bdc1c6",
	Disabled:   "#5f6368",
	Diamond:    "#3c4043",
	Icon:       "#9aa0a6",
	Menu:       "#8ab4f8",
}}

func init() {
	register(Simple)
	register(Dark)
}

func (s Flat) Name() string     { return s.name }
func (s Flat) Palette() Palette { return s.palette }

func (s Flat) RenderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <defs>\n    <style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s); }</style>\n  </defs>\n",
		fonts.FontFamily, fonts.RegularBase64())
	fmt.Fprintf(buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", s.palette.Background)
}

func (s Flat) RenderNode(buf *bytes.Buffer, n flow.Node) {
	p := s.palette
	stroke := p.CardStroke
	if n.Disabled {
		stroke = p.Disabled
	}
	id := EscapeXML(n.ID)
	cx, cy := n.X+n.W/2, n.Y+n.H/2

	switch n.Shape {
	case flow.ShapeDiamond:
		fmt.Fprintf(buf, `  <polygon id="node-%s" class="diamond" points="%.2f,%.2f %.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s" stroke="%s"/>`+"\n",
			id, cx, n.Y, n.X+n.W, cy, cx, n.Y+n.H, n.X, cy, p.Diamond, stroke)
	case flow.ShapeLoopIcon:
		fmt.Fprintf(buf, `  <circle id="node-%s" class="loop" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s"/>`+"\n",
			id, cx, cy, n.W/2, p.Icon)
	case flow.ShapeIconBrick:
		fmt.Fprintf(buf, `  <rect id="node-%s" class="brick" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" fill="%s" stroke="%s"/>`+"\n",
			id, n.X, n.Y, n.W, n.H, p.Diamond, p.Icon)
		fmt.Fprintf(buf, `  <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-size="%.0f" fill="%s">!</text>`+"\n",
			cx, cy, n.H*0.75, p.Icon)
	case flow.ShapeInsertPoint:
		fmt.Fprintf(buf, `  <circle id="node-%s" class="insert" cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s"/>`+"\n",
			id, cx, cy, n.W/4, p.Background, p.Disabled)
	default:
		s.renderCard(buf, n, stroke)
	}
}

func (s Flat) renderCard(buf *bytes.Buffer, n flow.Node, stroke string) {
	p := s.palette
	id := EscapeXML(n.ID)
	header := padding + lineHeight
	fmt.Fprintf(buf, `  <g id="node-%s" class="card" data-owner="%s">`+"\n", id, EscapeXML(n.Owner))
	fmt.Fprintf(buf, `    <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="%s" stroke="%s"/>`+"\n",
		n.X, n.Y, n.W, n.H, p.CardFill, stroke)
	fmt.Fprintf(buf, `    <path d="M%.2f,%.2f h%.2f v%.2f h%.2f Z" fill="%s"/>`+"\n",
		n.X+0.5, n.Y+0.5, n.W-1, header, -(n.W - 1), p.CardHeader)

	family := fonts.FallbackFontFamily
	fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="%s" font-size="%d" font-weight="bold" fill="%s">%s</text>`+"\n",
		n.X+padding, n.Y+padding+fontSize, family, fontSize, p.Title, EscapeXML(n.Title))
	fill := p.Text
	if n.Link != "" {
		fill = p.Link
	}
	for i, line := range n.Lines {
		y := n.Y + padding + lineHeight*float64(i+1) + fontSize
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="%s" font-size="%d" fill="%s">%s</text>`+"\n",
			n.X+padding, y, family, fontSize, fill, EscapeXML(line))
	}
	buf.WriteString("  </g>\n")
}

func (s Flat) RenderEdge(buf *bytes.Buffer, e edge.Primitives) {
	color := s.palette.EdgeColor(e)
	dash := ""
	if e.Dashed {
		dash = ` stroke-dasharray="4 3"`
	}
	fmt.Fprintf(buf, `  <g id="edge-%s" class="edge">`+"\n", EscapeXML(e.ID))
	fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"%s/>`+"\n",
		e.Line.X1, e.Line.Y1, e.Line.X2, e.Line.Y2, color, dash)
	for _, a := range e.Arrow {
		fmt.Fprintf(buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n",
			a.X1, a.Y1, a.X2, a.Y2, color)
	}
	if e.Label != nil {
		fmt.Fprintf(buf, `    <text x="%.2f" y="%.2f" font-family="%s" font-size="%d" fill="%s" dominant-baseline="hanging">%s</text>`+"\n",
			e.Label.X, e.Label.Y, fonts.FallbackFontFamily, fontSize-2, s.palette.Label, EscapeXML(e.Label.Text))
	}
	buf.WriteString("  </g>\n")
}

func (s Flat) RenderMenu(buf *bytes.Buffer, m flow.Menu) {
	r := m.Size / 2
	fmt.Fprintf(buf, `  <g id="menu-%s" class="menu">`+"\n", EscapeXML(m.ID))
	fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s"/>`+"\n",
		m.X, m.Y, r/1.5, s.palette.Background, s.palette.Menu)
	fmt.Fprintf(buf, `    <path d="M%.2f,%.2f h%.2f M%.2f,%.2f v%.2f" stroke="%s"/>`+"\n",
		m.X-r/3, m.Y, 2*r/3, m.X, m.Y-r/3, 2*r/3, s.palette.Menu)
	buf.WriteString("  </g>\n")
}
