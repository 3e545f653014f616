package cursor

import (
	"math"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
	"github.com/matzehuels/adaptiveflow/pkg/observability"
)

// DefaultPerpendicularWeight scales the perpendicular misalignment against
// the primary-axis gap.
const DefaultPerpendicularWeight = 2

// Options configures a Tracker.
type Options struct {
	PerpendicularWeight float64 `json:"perpendicular_weight" toml:"perpendicular_weight" koanf:"perpendicular_weight"`
}

// DefaultOptions returns the stock navigation options.
func DefaultOptions() Options {
	return Options{PerpendicularWeight: DefaultPerpendicularWeight}
}

// Tracker resolves navigation commands.
type Tracker struct {
	weight float64
}

// New returns a tracker. A non-positive weight selects the default.
func New(opts Options) *Tracker {
	w := opts.PerpendicularWeight
	if w <= 0 {
		w = DefaultPerpendicularWeight
	}
	return &Tracker{weight: w}
}

// Move applies cmd starting from the element whose FocusedID is focused.
// It reports false when focus does not move. When focused is not on the
// surface, focus goes to the first element in selection order.
func (t *Tracker) Move(elements []Element, focused string, cmd Command) (Result, bool) {
	res, moved := t.move(elements, focused, cmd)
	observability.Layout().OnNavigate(cmd.String(), moved)
	return res, moved
}

func (t *Tracker) move(elements []Element, focused string, cmd Command) (Result, bool) {
	if len(elements) == 0 {
		return Result{}, false
	}
	cur, ok := find(elements, focused)
	if !ok {
		return resultOf(first(elements)), true
	}

	var next *Element
	switch cmd {
	case Up, Down, Left, Right:
		next = t.directional(elements, cur, cmd, nil)
	case Next:
		next = t.next(elements, cur)
	case Previous:
		next = t.previous(elements, cur)
	}
	if next == nil {
		return resultOf(cur), false
	}
	return resultOf(*next), true
}

// directional returns the nearest element strictly on the cmd side of cur.
// For vertical moves, elements inside cur's structural branch win when any
// qualify. The branch is the subtree of cur's parent path, so the bodies of
// cur and of its siblings belong to it while sibling branches do not.
func (t *Tracker) directional(elements []Element, cur Element, cmd Command, exclude func(Element) bool) *Element {
	var all, branch []int
	parent := dialog.Parent(cur.SelectedID)
	for i, e := range elements {
		if e.FocusedID == cur.FocusedID || (exclude != nil && exclude(e)) {
			continue
		}
		if !onSide(cur.Bounds, e.Bounds, cmd) {
			continue
		}
		all = append(all, i)
		if cur.SelectedID != "" && within(e.SelectedID, parent) {
			branch = append(branch, i)
		}
	}
	pool := all
	if (cmd == Up || cmd == Down) && len(branch) > 0 {
		pool = branch
	}

	best, bestScore := -1, math.Inf(1)
	for _, i := range pool {
		score := t.score(cur.Bounds, elements[i].Bounds, cmd)
		if score < bestScore || (score == bestScore && Compare(elements[i].SelectedID, elements[best].SelectedID) < 0) {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return nil
	}
	return &elements[best]
}

// next descends into the first contained element, or else moves down
// skipping nodes and edge menus.
func (t *Tracker) next(elements []Element, cur Element) *Element {
	var child *Element
	for i := range elements {
		e := &elements[i]
		if e.FocusedID == cur.FocusedID || !cur.Bounds.Contains(e.Bounds) || e.Bounds == cur.Bounds {
			continue
		}
		if child == nil || readingBefore(e.Bounds, child.Bounds) {
			child = e
		}
	}
	if child != nil {
		return child
	}
	return t.directional(elements, cur, Down, func(e Element) bool {
		return e.IsNode || e.IsEdgeMenu
	})
}

// previous ascends to the smallest enclosing element, preferring the closest
// preceding inline-link sibling inside it, or else moves up.
func (t *Tracker) previous(elements []Element, cur Element) *Element {
	var parent *Element
	for i := range elements {
		e := &elements[i]
		if e.FocusedID == cur.FocusedID || !e.Bounds.Contains(cur.Bounds) || e.Bounds == cur.Bounds {
			continue
		}
		if parent == nil || e.Bounds.Area() < parent.Bounds.Area() {
			parent = e
		}
	}
	if parent == nil {
		return t.directional(elements, cur, Up, nil)
	}

	var link *Element
	for i := range elements {
		e := &elements[i]
		if !e.IsInlineLink || e.FocusedID == cur.FocusedID || e.FocusedID == parent.FocusedID {
			continue
		}
		if !parent.Bounds.Contains(e.Bounds) || !readingBefore(e.Bounds, cur.Bounds) {
			continue
		}
		if link == nil || readingBefore(link.Bounds, e.Bounds) {
			link = e
		}
	}
	if link != nil {
		return link
	}
	return parent
}

func (t *Tracker) score(from, to Rect, cmd Command) float64 {
	fx, fy := from.Center()
	tx, ty := to.Center()
	switch cmd {
	case Up:
		return from.Top() - to.Bottom() + t.weight*math.Abs(tx-fx)
	case Down:
		return to.Top() - from.Bottom() + t.weight*math.Abs(tx-fx)
	case Left:
		return from.Left() - to.Right() + t.weight*math.Abs(ty-fy)
	default:
		return to.Left() - from.Right() + t.weight*math.Abs(ty-fy)
	}
}

func onSide(from, to Rect, cmd Command) bool {
	switch cmd {
	case Up:
		return to.Bottom() <= from.Top()
	case Down:
		return to.Top() >= from.Bottom()
	case Left:
		return to.Right() <= from.Left()
	case Right:
		return to.Left() >= from.Right()
	}
	return false
}

// readingBefore orders rects top to bottom, then left to right.
func readingBefore(a, b Rect) bool {
	if a.Top() != b.Top() {
		return a.Top() < b.Top()
	}
	return a.Left() < b.Left()
}

func find(elements []Element, focused string) (Element, bool) {
	if focused == "" {
		return Element{}, false
	}
	for _, e := range elements {
		if e.FocusedID == focused {
			return e, true
		}
	}
	return Element{}, false
}

// first returns the first selectable element in selection order. Edge
// menus carry no selection id and only win when nothing else is on the
// surface.
func first(elements []Element) Element {
	best := elements[0]
	for _, e := range elements[1:] {
		if (e.SelectedID == "") != (best.SelectedID == "") {
			if best.SelectedID == "" {
				best = e
			}
			continue
		}
		if c := Compare(e.SelectedID, best.SelectedID); c < 0 || (c == 0 && readingBefore(e.Bounds, best.Bounds)) {
			best = e
		}
	}
	return best
}
