package flow

import (
	"fmt"
	"strings"

	"github.com/matzehuels/adaptiveflow/pkg/cache"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/cursor"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/edge"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/layout"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/measure"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/smart"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/transform"
)

// Card text metrics.
const (
	cardPadding = 8
	maxBodyRows = 6
)

// box is one construct of the tree being built.
type box struct {
	id       string
	version  string
	node     dialog.Node
	kind     dialog.Kind
	depth    int
	estimate boundary.Boundary
	parent   *box
	children []*box
	labels   []string
	ctrl     *smart.Controller
}

func (b *box) container() bool { return b.kind.IsContainer() }

type builder struct {
	opts    Options
	m       *measure.Measurer
	text    TextMeasurer
	sched   *smart.Scheduler
	reports int
	scene   *Scene
}

// Build lays out a document. It never fails: unknown constructs render as
// generic cards.
func Build(doc *dialog.Document, opts Options) *Scene {
	if opts.Sizes == (boundary.Sizes{}) {
		opts.Sizes = boundary.DefaultSizes()
	}
	if opts.Edge.ArrowLength == 0 && opts.Edge.LabelOffsets == nil {
		opts.Edge = edge.DefaultOptions()
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultFontSize
	}
	c := opts.Cache
	if c == nil {
		c = measure.NewLRU(measure.DefaultCapacity)
	}
	text := opts.Text
	if text == nil {
		text = ApproxMeasurer(opts.FontSize)
	}

	b := &builder{
		opts:  opts,
		m:     measure.New(opts.Sizes, c),
		text:  text,
		sched: smart.NewScheduler(opts.MaxPasses),
		scene: &Scene{Path: doc.Path},
	}

	root := b.grow(dialog.IndexedNode{ID: doc.Path, JSON: doc.Root}, nil, 0)
	b.attach(root)
	stats := smart.TickStats{Quiescent: true}
	if opts.Smart {
		b.reportCards(root)
		stats = b.sched.Tick()
	}

	bnd := b.boundaryOf(root)
	b.scene.Boundary = bnd
	b.scene.Width, b.scene.Height = bnd.Width, bnd.Height
	b.flatten(root, layout.Point{})
	b.scene.Stats = Stats{
		Computed: b.m.Computed(),
		Reports:  b.reports,
		Passes:   stats.Passes,
		Flushes:  stats.Flushes,
		Settled:  stats.Quiescent,
	}
	b.close(root)
	return b.scene
}

// grow builds the box tree with estimated boundaries.
func (b *builder) grow(n dialog.IndexedNode, parent *box, depth int) *box {
	bx := &box{
		id:       n.ID,
		version:  cache.Hash(dialog.Canonical(n.JSON)),
		node:     n.JSON,
		kind:     n.JSON.Kind(),
		depth:    depth,
		parent:   parent,
		estimate: b.m.Measure(n.JSON),
	}

	var kids []dialog.IndexedNode
	switch bx.kind {
	case dialog.KindSequence, dialog.KindStepGroup:
		kids = transform.Group(n.JSON, n.ID)
	case dialog.KindIfCondition:
		t := transform.IfCondition(n.JSON, n.ID)
		kids = []dialog.IndexedNode{t.Condition, t.Choice, t.If, t.Else}
	case dialog.KindSwitchCondition:
		t := transform.SwitchCondition(n.JSON, n.ID)
		kids = []dialog.IndexedNode{t.Condition, t.Choice}
		for _, br := range t.Branches {
			kids = append(kids, br.Node)
			bx.labels = append(bx.labels, br.Label)
		}
	case dialog.KindForeach:
		t := transform.ForeachLoop(n.JSON, n.ID)
		kids = []dialog.IndexedNode{t.Header, t.LoopBegin, t.Body, t.LoopEnd}
	case dialog.KindBaseInput:
		t := transform.BaseInput(n.JSON, n.ID)
		kids = []dialog.IndexedNode{t.BotAsks, t.UserAnswers, t.InvalidPrompt}
	}
	for _, k := range kids {
		bx.children = append(bx.children, b.grow(k, bx, depth+1))
	}
	return bx
}

// attach creates the controllers, children first.
func (b *builder) attach(bx *box) {
	if !bx.container() {
		return
	}
	children := make([]smart.Child, len(bx.children))
	for i, c := range bx.children {
		b.attach(c)
		children[i] = smart.Child{ID: c.id, Version: c.version, Estimate: c.estimate}
	}

	opts := smart.Options{ID: bx.id, Depth: bx.depth, Scheduler: b.sched}
	if p := bx.parent; p != nil {
		opts.OnResize = func(nb boundary.Boundary) {
			b.reports++
			p.ctrl.Report(bx.id, bx.version, nb)
		}
	}
	bx.ctrl = smart.NewController(children, b.arrange(bx), opts)
}

func (b *builder) arrange(bx *box) smart.Arrange {
	s := b.opts.Sizes
	return func(bs []boundary.Boundary) layout.GraphLayout {
		nodes := make([]layout.GraphNode, len(bs))
		for i, c := range bx.children {
			nodes[i] = layout.NewNode(c.id, c.node, bs[i])
		}
		switch bx.kind {
		case dialog.KindSequence:
			return layout.Sequential(s, true, true, nodes...)
		case dialog.KindIfCondition:
			return layout.IfElse(s, nodes[0], nodes[1], nodes[2], nodes[3])
		case dialog.KindSwitchCondition:
			return layout.Switch(s, nodes[0], nodes[1], nodes[2:], bx.labels)
		case dialog.KindForeach:
			return layout.Foreach(s, nodes[0], nodes[1], nodes[2], nodes[3])
		case dialog.KindBaseInput:
			return layout.BaseInput(s, nodes[0], nodes[1], nodes[2])
		default:
			return layout.Sequential(s, false, false, nodes...)
		}
	}
}

// reportCards feeds every card's text-derived size to its container.
func (b *builder) reportCards(bx *box) {
	for _, c := range bx.children {
		if c.container() {
			b.reportCards(c)
			continue
		}
		if shapeOf(c.kind) != ShapeCard {
			continue
		}
		if size := b.cardSize(c.node); size != c.estimate {
			b.reports++
			bx.ctrl.Report(c.id, c.version, size)
		}
	}
}

func (b *builder) lineHeight() float64 {
	_, h := b.text.MeasureString("Hg")
	return h * lineHeightRatio
}

// cardSize is the boundary a card needs to show its title and all of its
// wrapped body text. Width is fixed; height never drops below NodeHeight.
func (b *builder) cardSize(n dialog.Node) boundary.Boundary {
	s := b.opts.Sizes
	lines := wrap(b.text, body(n), s.NodeWidth-2*cardPadding, maxBodyRows)
	h := 2*cardPadding + float64(1+len(lines))*b.lineHeight()
	return boundary.New(s.NodeWidth, max(s.NodeHeight, h))
}

// cardLines returns the body rows that fit a card of the given height.
func (b *builder) cardLines(n dialog.Node, height float64) []string {
	lh := b.lineHeight()
	rows := int((height-2*cardPadding)/lh+1e-9) - 1
	if rows < 1 {
		rows = 1
	}
	return wrap(b.text, body(n), b.opts.Sizes.NodeWidth-2*cardPadding, min(rows, maxBodyRows))
}

func (b *builder) boundaryOf(bx *box) boundary.Boundary {
	if bx.ctrl != nil {
		return bx.ctrl.Boundary()
	}
	return bx.estimate
}

// flatten writes absolute geometry for bx placed at origin.
func (b *builder) flatten(bx *box, origin layout.Point) {
	if !bx.container() {
		b.leaf(bx, origin, bx.estimate)
		return
	}

	l := bx.ctrl.Layout()
	b.scene.Containers = append(b.scene.Containers, Container{
		ID:       bx.id,
		Kind:     bx.kind.String(),
		Depth:    bx.depth,
		X:        origin.X,
		Y:        origin.Y,
		Estimate: bx.estimate,
		Boundary: l.Boundary,
		State:    bx.ctrl.State().String(),
	})

	if len(bx.children) == 0 {
		b.leaf(bx, origin, l.Boundary)
		b.menu(bx, 0, origin.Add(layout.Point{X: l.Boundary.AxisX, Y: l.Boundary.AxisY}))
		return
	}

	placed := make(map[string]layout.GraphNode, len(l.Nodes))
	for _, gn := range l.Nodes {
		placed[gn.ID] = gn
	}
	for _, c := range bx.children {
		gn := placed[c.id]
		at := origin.Add(gn.Offset)
		if c.container() {
			b.flatten(c, at)
		} else {
			b.leaf(c, at, gn.Boundary)
		}
	}

	for _, e := range l.Edges {
		e.X += origin.X
		e.Y += origin.Y
		e.ID = scoped(bx.id, e.ID)
		if bx.node.Disabled() {
			e.Options.Color = "disabled"
		}
		if p := edge.Render(e, b.opts.Edge); p != nil {
			b.scene.Edges = append(b.scene.Edges, *p)
		}
		if idx, ok := menuIndex(e.ID, bx, len(bx.children)); ok {
			mid := e.End()
			mid.X, mid.Y = (e.X+mid.X)/2, (e.Y+mid.Y)/2
			b.menu(bx, idx, mid)
		}
	}
}

// leaf records a drawn shape and its focusable elements.
func (b *builder) leaf(bx *box, at layout.Point, bnd boundary.Boundary) {
	n := Node{
		ID:       bx.id,
		Owner:    ownerOf(bx.id, bx.kind),
		Kind:     bx.kind.String(),
		SDKKind:  bx.node.SDKKind(),
		Shape:    shapeOf(bx.kind),
		Disabled: bx.node.Disabled(),
		X:        at.X,
		Y:        at.Y,
		W:        bnd.Width,
		H:        bnd.Height,
	}
	switch n.Shape {
	case ShapeCard:
		n.Title = title(bx.node)
		n.Lines = b.cardLines(bx.node, bnd.Height)
		n.Link = bx.node.String(dialog.FieldDialog)
	case ShapeInsertPoint:
		n.Owner = ""
	}
	b.scene.Nodes = append(b.scene.Nodes, n)

	if n.Shape != ShapeCard && n.Shape != ShapeIconBrick {
		return
	}
	b.scene.Elements = append(b.scene.Elements, cursor.Element{
		SelectedID: n.Owner,
		FocusedID:  n.ID,
		Tab:        tabOf(bx.kind),
		IsNode:     true,
		Bounds:     n.Bounds(),
	})
	if n.Link != "" {
		lh := b.lineHeight()
		b.scene.Elements = append(b.scene.Elements, cursor.Element{
			SelectedID:   n.Owner,
			FocusedID:    n.ID + "#link",
			IsInlineLink: true,
			Bounds: cursor.Rect{
				X:      n.X + cardPadding,
				Y:      n.Y + cardPadding + lh,
				Width:  n.W - 2*cardPadding,
				Height: lh,
			},
		})
	}
}

func (b *builder) menu(bx *box, idx int, center layout.Point) {
	if !b.opts.Menus {
		return
	}
	arr := bx.id
	if bx.kind == dialog.KindSequence {
		arr = dialog.Join(bx.id, dialog.FieldActions)
	}
	size := b.opts.Sizes.InsertPointSize
	m := Menu{
		ID:        fmt.Sprintf("%s/menu/%d", arr, idx),
		ArrayPath: arr,
		Index:     idx,
		X:         center.X,
		Y:         center.Y,
		Size:      size,
	}
	b.scene.Menus = append(b.scene.Menus, m)
	b.scene.Elements = append(b.scene.Elements, cursor.Element{
		FocusedID:  m.ID,
		IsEdgeMenu: true,
		Bounds:     m.Bounds(),
	})
}

// menuIndex maps a sequence edge to the insertion index it stands for.
func menuIndex(id string, bx *box, n int) (int, bool) {
	if bx.kind != dialog.KindSequence && bx.kind != dialog.KindStepGroup {
		return 0, false
	}
	local := strings.TrimPrefix(id, scoped(bx.id, ""))
	switch local {
	case "seq/head":
		return 0, true
	case "seq/tail":
		return n, true
	}
	var i int
	if _, err := fmt.Sscanf(local, "seq/%d", &i); err == nil {
		return i + 1, true
	}
	return 0, false
}

func scoped(container, id string) string {
	if container == "" {
		return id
	}
	return container + "/" + id
}

func (b *builder) close(bx *box) {
	for _, c := range bx.children {
		b.close(c)
	}
	if bx.ctrl != nil {
		bx.ctrl.Close()
	}
}
