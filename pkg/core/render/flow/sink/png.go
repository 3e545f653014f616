package sink

import (
	"bytes"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/edge"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow/styles"
	"github.com/matzehuels/adaptiveflow/pkg/errors"
	"github.com/matzehuels/adaptiveflow/pkg/fonts"
)

// DefaultScale renders PNGs at 2x resolution.
const DefaultScale = 2.0

const (
	cardPadding = 8
	fontSize    = flow.DefaultFontSize
	lineHeight  = fontSize * 1.3
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	style  styles.Style
	scale  float64
	margin float64
	menus  bool
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption { return func(r *pngRenderer) { r.scale = s } }

// WithPNGStyle selects the palette the raster is drawn with.
func WithPNGStyle(s styles.Style) PNGOption { return func(r *pngRenderer) { r.style = s } }

// WithPNGMenus draws the insertion menus.
func WithPNGMenus() PNGOption { return func(r *pngRenderer) { r.menus = true } }

// RenderPNG rasterizes the scene with the embedded Go font. Unlike
// [RenderPDF] it needs no external tools.
func RenderPNG(s *flow.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{style: styles.Simple, scale: DefaultScale, margin: DefaultMargin}
	for _, opt := range opts {
		opt(&r)
	}
	if r.style == nil {
		r.style = styles.Simple
	}
	if r.scale <= 0 || math.IsNaN(r.scale) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %g", r.scale)
	}

	c, err := newCanvas(s, r)
	if err != nil {
		return nil, err
	}
	for _, e := range s.Edges {
		c.edge(e)
	}
	for _, n := range s.Nodes {
		c.node(n)
	}
	if r.menus {
		for _, m := range s.Menus {
			c.menu(m)
		}
	}

	var buf bytes.Buffer
	if err := c.dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// canvas maps scene coordinates to pixels. Scaling is applied to
// coordinates and font sizes directly so that glyphs are rasterized at the
// final resolution.
type canvas struct {
	dc                   *gg.Context
	p                    styles.Palette
	scale, margin        float64
	regular, bold, small font.Face
}

func newCanvas(s *flow.Scene, r pngRenderer) (*canvas, error) {
	c := &canvas{p: r.style.Palette(), scale: r.scale, margin: r.margin}
	var err error
	if c.regular, err = fonts.Face(fontSize*r.scale, false); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}
	if c.bold, err = fonts.Face(fontSize*r.scale, true); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}
	if c.small, err = fonts.Face((fontSize-2)*r.scale, false); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load font")
	}

	w := int(math.Ceil((s.Width + 2*r.margin) * r.scale))
	h := int(math.Ceil((s.Height + 2*r.margin) * r.scale))
	c.dc = gg.NewContext(max(w, 1), max(h, 1))
	c.dc.SetHexColor(c.p.Background)
	c.dc.Clear()
	c.dc.SetLineWidth(r.scale)
	return c, nil
}

func (c *canvas) x(v float64) float64 { return (v + c.margin) * c.scale }
func (c *canvas) y(v float64) float64 { return (v + c.margin) * c.scale }
func (c *canvas) d(v float64) float64 { return v * c.scale }

func (c *canvas) fillStroke(fill, stroke string) {
	c.dc.SetHexColor(fill)
	c.dc.FillPreserve()
	c.dc.SetHexColor(stroke)
	c.dc.Stroke()
}

func (c *canvas) line(s edge.Segment, color string) {
	c.dc.SetHexColor(color)
	c.dc.DrawLine(c.x(s.X1), c.y(s.Y1), c.x(s.X2), c.y(s.Y2))
	c.dc.Stroke()
}

func (c *canvas) edge(e edge.Primitives) {
	color := c.p.EdgeColor(e)
	if e.Dashed {
		c.dc.SetDash(c.d(4), c.d(3))
	}
	c.line(e.Line, color)
	c.dc.SetDash()
	for _, a := range e.Arrow {
		c.line(a, color)
	}
	if e.Label != nil {
		c.dc.SetFontFace(c.small)
		c.dc.SetHexColor(c.p.Label)
		c.dc.DrawStringAnchored(e.Label.Text, c.x(e.Label.X), c.y(e.Label.Y), 0, 1)
	}
}

func (c *canvas) node(n flow.Node) {
	stroke := c.p.CardStroke
	if n.Disabled {
		stroke = c.p.Disabled
	}
	cx, cy := c.x(n.X+n.W/2), c.y(n.Y+n.H/2)

	switch n.Shape {
	case flow.ShapeDiamond:
		c.dc.MoveTo(cx, c.y(n.Y))
		c.dc.LineTo(c.x(n.X+n.W), cy)
		c.dc.LineTo(cx, c.y(n.Y+n.H))
		c.dc.LineTo(c.x(n.X), cy)
		c.dc.ClosePath()
		c.fillStroke(c.p.Diamond, stroke)
	case flow.ShapeLoopIcon:
		c.dc.DrawCircle(cx, cy, c.d(n.W/2))
		c.dc.SetHexColor(c.p.Icon)
		c.dc.Stroke()
	case flow.ShapeIconBrick:
		c.dc.DrawRoundedRectangle(c.x(n.X), c.y(n.Y), c.d(n.W), c.d(n.H), c.d(3))
		c.fillStroke(c.p.Diamond, c.p.Icon)
		c.dc.SetFontFace(c.bold)
		c.dc.SetHexColor(c.p.Icon)
		c.dc.DrawStringAnchored("!", cx, cy, 0.5, 0.35)
	case flow.ShapeInsertPoint:
		c.dc.DrawCircle(cx, cy, c.d(n.W/4))
		c.fillStroke(c.p.Background, c.p.Disabled)
	default:
		c.card(n, stroke)
	}
}

func (c *canvas) card(n flow.Node, stroke string) {
	c.dc.DrawRoundedRectangle(c.x(n.X), c.y(n.Y), c.d(n.W), c.d(n.H), c.d(4))
	c.fillStroke(c.p.CardFill, stroke)
	c.dc.DrawRectangle(c.x(n.X+0.5), c.y(n.Y+0.5), c.d(n.W-1), c.d(cardPadding+lineHeight))
	c.dc.SetHexColor(c.p.CardHeader)
	c.dc.Fill()

	c.dc.SetFontFace(c.bold)
	c.dc.SetHexColor(c.p.Title)
	c.dc.DrawString(n.Title, c.x(n.X+cardPadding), c.y(n.Y+cardPadding+fontSize))

	c.dc.SetFontFace(c.regular)
	if n.Link != "" {
		c.dc.SetHexColor(c.p.Link)
	} else {
		c.dc.SetHexColor(c.p.Text)
	}
	for i, line := range n.Lines {
		y := n.Y + cardPadding + lineHeight*float64(i+1) + fontSize
		c.dc.DrawString(line, c.x(n.X+cardPadding), c.y(y))
	}
}

func (c *canvas) menu(m flow.Menu) {
	r := m.Size / 2
	c.dc.DrawCircle(c.x(m.X), c.y(m.Y), c.d(r/1.5))
	c.fillStroke(c.p.Background, c.p.Menu)
	c.line(edge.Segment{X1: m.X - r/3, Y1: m.Y, X2: m.X + r/3, Y2: m.Y}, c.p.Menu)
	c.line(edge.Segment{X1: m.X, Y1: m.Y - r/3, X2: m.X, Y2: m.Y + r/3}, c.p.Menu)
}
