package flow

import (
	"math"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/cursor"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/measure"
)

const ifElseDoc = `[
	{"$kind": "Microsoft.SendActivity", "activity": "Hello"},
	{
		"$kind": "Microsoft.IfCondition",
		"condition": "x > 1",
		"actions": [{"$kind": "Microsoft.SendActivity", "activity": "yes"}],
		"elseActions": [
			{"$kind": "Microsoft.SendActivity", "activity": "no"},
			{"$kind": "Microsoft.EndDialog"}
		]
	}
]`

func mustDoc(t *testing.T, s string) *dialog.Document {
	t.Helper()
	doc, err := dialog.Parse([]byte(s), dialog.ParseOptions{})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return doc
}

func TestBuildMatchesEstimate(t *testing.T) {
	doc := mustDoc(t, ifElseDoc)
	scene := Build(doc, DefaultOptions())

	want := measure.New(boundary.DefaultSizes(), nil).Measure(doc.Root)
	if scene.Boundary != want {
		t.Errorf("Boundary = %v, want estimate %v", scene.Boundary, want)
	}
	if scene.Width != want.Width || scene.Height != want.Height {
		t.Errorf("size = %gx%g, want %gx%g", scene.Width, scene.Height, want.Width, want.Height)
	}
	if len(scene.Nodes) != 6 {
		t.Errorf("len(Nodes) = %d, want 6", len(scene.Nodes))
	}
	if !scene.Stats.Settled || scene.Stats.Reports != 0 {
		t.Errorf("Stats = %+v, want settled without reports", scene.Stats)
	}
}

func TestBuildNodes(t *testing.T) {
	scene := Build(mustDoc(t, ifElseDoc), DefaultOptions())

	first, ok := scene.Node("actions[0]")
	if !ok {
		t.Fatal("actions[0] missing")
	}
	// The if/else row is 410 wide with its trunk at 205; the root spine
	// follows it.
	if first.X != 115 || first.Y != 10 {
		t.Errorf("actions[0] at (%g,%g), want (115,10)", first.X, first.Y)
	}
	if first.Title != "Send Activity" || !slices.Equal(first.Lines, []string{"Hello"}) {
		t.Errorf("actions[0] text = %q %q", first.Title, first.Lines)
	}

	cond, _ := scene.Node("actions[1].condition")
	if cond.Owner != "actions[1]" || cond.Title != "Branch: If/else" || cond.Shape != ShapeCard {
		t.Errorf("condition = %+v", cond)
	}
	if choice, _ := scene.Node("actions[1].choice"); choice.Shape != ShapeDiamond {
		t.Errorf("choice shape = %q, want diamond", choice.Shape)
	}
	if end, _ := scene.Node("actions[1].elseActions[1]"); end.Title != "End Dialog" {
		t.Errorf("end title = %q", end.Title)
	}
}

func TestBuildEdges(t *testing.T) {
	scene := Build(mustDoc(t, ifElseDoc), DefaultOptions())

	for id, label := range map[string]string{
		"actions[1]/branch/drop/0": "True",
		"actions[1]/branch/drop/1": "False",
	} {
		e, ok := scene.Edge(id)
		if !ok {
			t.Errorf("edge %s missing", id)
			continue
		}
		if e.Label == nil || e.Label.Text != label {
			t.Errorf("edge %s label = %v, want %q", id, e.Label, label)
		}
		if len(e.Arrow) != 2 {
			t.Errorf("edge %s arrow strokes = %d, want 2", id, len(e.Arrow))
		}
	}
	head, ok := scene.Edge("seq/head")
	if !ok || head.Line.Y1 != 0 || head.Line.Y2 != 10 {
		t.Errorf("seq/head = %+v, %v", head, ok)
	}
	if base, ok := scene.Edge("actions[1]/branch/baseline"); !ok || base.Line.X2-base.Line.X1 != 230 {
		t.Errorf("baseline = %+v, %v; want 230 wide", base, ok)
	}
	for _, e := range scene.Edges {
		if e.Line.Length() <= 0 {
			t.Errorf("edge %s has zero length", e.ID)
		}
	}
}

func TestBuildMenus(t *testing.T) {
	scene := Build(mustDoc(t, ifElseDoc), DefaultOptions())
	var ids []string
	for _, m := range scene.Menus {
		ids = append(ids, m.ID)
	}
	want := []string{"actions/menu/0", "actions/menu/1", "actions[1].elseActions/menu/1", "actions/menu/2"}
	slices.Sort(ids)
	slices.Sort(want)
	if !slices.Equal(ids, want) {
		t.Errorf("menus = %v, want %v", ids, want)
	}

	opts := DefaultOptions()
	opts.Menus = false
	if got := Build(mustDoc(t, ifElseDoc), opts).Menus; len(got) != 0 {
		t.Errorf("Menus disabled but got %d", len(got))
	}
}

func TestBuildEmptyBranchIsInsertPoint(t *testing.T) {
	scene := Build(mustDoc(t, `[{"$kind":"Microsoft.IfCondition","actions":[]}]`), DefaultOptions())
	n, ok := scene.Node("actions[0].elseActions")
	if !ok || n.Shape != ShapeInsertPoint {
		t.Fatalf("else branch = %+v, %v; want insert point", n, ok)
	}
	if n.W != 16 || n.H != 16 {
		t.Errorf("insert point size = %gx%g", n.W, n.H)
	}
	found := false
	for _, m := range scene.Menus {
		if m.ArrayPath == "actions[0].elseActions" && m.Index == 0 {
			found = true
		}
	}
	if !found {
		t.Error("empty branch has no insertion menu")
	}
}

func TestBuildSelectableIDs(t *testing.T) {
	scene := Build(mustDoc(t, ifElseDoc), DefaultOptions())
	want := []string{
		"actions[0]",
		"actions[1]",
		"actions[1].actions[0]",
		"actions[1].elseActions[0]",
		"actions[1].elseActions[1]",
	}
	if got := scene.SelectableIDs(); !slices.Equal(got, want) {
		t.Errorf("SelectableIDs() = %v, want %v", got, want)
	}
}

func TestBuildNavigation(t *testing.T) {
	opts := DefaultOptions()
	opts.Menus = false
	scene := Build(mustDoc(t, ifElseDoc), opts)

	res, moved := cursor.New(cursor.DefaultOptions()).Move(scene.Elements, "actions[0]", cursor.Down)
	if !moved || res.Selected != "actions[1]" || res.Focused != "actions[1].condition" {
		t.Errorf("Down from actions[0] = %+v, %v", res, moved)
	}
}

func TestBuildNavigationEntersConstructBody(t *testing.T) {
	const foreachDoc = `[
		{
			"$kind": "Microsoft.Foreach",
			"itemsProperty": "items",
			"actions": [{"$kind": "Microsoft.SendActivity", "activity": "item"}]
		},
		{"$kind": "Microsoft.SendActivity", "activity": "done"}
	]`

	tests := []struct {
		name     string
		doc      string
		from     string
		cmd      cursor.Command
		selected string
	}{
		{"down from condition", ifElseDoc, "actions[1].condition", cursor.Down, "actions[1].actions[0]"},
		{"down from foreach header", foreachDoc, "actions[0].detail", cursor.Down, "actions[0].actions[0]"},
		{"up into foreach body", foreachDoc, "actions[1]", cursor.Up, "actions[0].actions[0]"},
		{"down out of foreach body", foreachDoc, "actions[0].actions[0]", cursor.Down, "actions[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Menus = false
			scene := Build(mustDoc(t, tt.doc), opts)

			res, moved := cursor.New(cursor.DefaultOptions()).Move(scene.Elements, tt.from, tt.cmd)
			if !moved || res.Selected != tt.selected {
				t.Errorf("Move(%s, %v) = %+v, %v; want selected %s", tt.from, tt.cmd, res, moved, tt.selected)
			}
		})
	}
}

func TestBuildSmartGrowsCards(t *testing.T) {
	long := strings.Repeat("word ", 40)
	doc := mustDoc(t, `[{"$kind":"Microsoft.SendActivity","activity":"`+long+`"},{"$kind":"Microsoft.EndDialog"}]`)

	base := Build(doc, DefaultOptions())
	opts := DefaultOptions()
	opts.Smart = true
	scene := Build(doc, opts)

	card, _ := scene.Node("actions[0]")
	if card.H <= 62 {
		t.Fatalf("card height = %g, want growth past 62", card.H)
	}
	if len(card.Lines) != maxBodyRows || !strings.HasSuffix(card.Lines[maxBodyRows-1], "..") {
		t.Errorf("card lines = %q", card.Lines)
	}
	if got, want := scene.Height-base.Height, card.H-62; math.Abs(got-want) > 1e-9 {
		t.Errorf("scene grew by %g, want %g", got, want)
	}
	if next, _ := scene.Node("actions[1]"); next.Y != 10+card.H+20 {
		t.Errorf("actions[1].Y = %g, want %g", next.Y, 10+card.H+20)
	}
	if !scene.Stats.Settled || scene.Stats.Reports == 0 {
		t.Errorf("Stats = %+v", scene.Stats)
	}
	if scene.Containers[0].State != "stable" {
		t.Errorf("root state = %q, want stable", scene.Containers[0].State)
	}

	short, _ := base.Node("actions[0]")
	if len(short.Lines) != 1 || !strings.HasSuffix(short.Lines[0], "..") {
		t.Errorf("estimated card lines = %q, want one cut-off row", short.Lines)
	}
}

func TestBuildSmartPropagatesThroughBranches(t *testing.T) {
	long := strings.Repeat("lorem ipsum ", 20)
	doc := mustDoc(t, `[{"$kind":"Microsoft.IfCondition","condition":"`+long+`","actions":[{"$kind":"Microsoft.SendActivity","activity":"`+long+`"}]}]`)

	opts := DefaultOptions()
	opts.Smart = true
	scene := Build(doc, opts)
	base := Build(doc, DefaultOptions())

	cond, _ := scene.Node("actions[0].condition")
	step, _ := scene.Node("actions[0].actions[0]")
	grow := (cond.H - 62) + (step.H - 62)
	if got := scene.Height - base.Height; math.Abs(got-grow) > 1e-9 {
		t.Errorf("scene grew by %g, want %g", got, grow)
	}
	if scene.Stats.Passes != 1 {
		t.Errorf("Passes = %d, want 1", scene.Stats.Passes)
	}
}

func TestBuildDeterministic(t *testing.T) {
	a := Build(mustDoc(t, ifElseDoc), DefaultOptions())
	b := Build(mustDoc(t, ifElseDoc), DefaultOptions())
	if !reflect.DeepEqual(a, b) {
		t.Error("Build is not deterministic")
	}
}

func TestBuildSharesCache(t *testing.T) {
	opts := DefaultOptions()
	opts.Cache = measure.NewLRU(0)

	first := Build(mustDoc(t, ifElseDoc), opts)
	second := Build(mustDoc(t, ifElseDoc), opts)
	if first.Stats.Computed == 0 {
		t.Error("first build computed nothing")
	}
	if second.Stats.Computed != 0 {
		t.Errorf("second build computed %d boundaries, want 0", second.Stats.Computed)
	}
}

func TestBuildDisabledAndUnknown(t *testing.T) {
	scene := Build(mustDoc(t, `[
		{"$kind":"Microsoft.Foreach","disabled":true,"itemsProperty":"items","actions":[{"$kind":"Microsoft.LogAction","text":"hi"}]},
		{"$kind":"Contoso.CustomAction"}
	]`), DefaultOptions())

	back, ok := scene.Edge("actions[0]/foreach/loop-back")
	if !ok || !back.Dashed || back.Color != "disabled" {
		t.Errorf("loop-back = %+v, %v", back, ok)
	}
	if body, _ := scene.Node("actions[0].actions[0]"); !body.Disabled {
		t.Error("loop body not disabled")
	}
	custom, _ := scene.Node("actions[1]")
	if custom.Kind != "unknown" || custom.Title != "Custom Action" || custom.W != 180 || custom.H != 62 {
		t.Errorf("unknown node = %+v", custom)
	}
}

func TestBuildInputTabs(t *testing.T) {
	scene := Build(mustDoc(t, `[{"$kind":"Microsoft.TextInput","prompt":"Name?","property":"user.name"}]`), DefaultOptions())
	tabs := map[string]string{}
	for _, e := range scene.Elements {
		if e.IsNode {
			tabs[e.FocusedID] = e.Tab
		}
	}
	want := map[string]string{
		"actions[0].botAsks":       "botAsks",
		"actions[0].userAnswers":   "userInput",
		"actions[0].invalidPrompt": "invalidPrompt",
	}
	if !reflect.DeepEqual(tabs, want) {
		t.Errorf("tabs = %v, want %v", tabs, want)
	}
}

func TestWrap(t *testing.T) {
	tm := ApproxMeasurer(10) // 5.5 per rune
	tests := []struct {
		text  string
		width float64
		max   int
		want  []string
	}{
		{"", 100, 0, nil},
		{"one two three", 1000, 0, []string{"one two three"}},
		{"one two three", 40, 0, []string{"one two", "three"}},
		{"one two three four", 40, 1, []string{"one t.."}},
		{"extraordinarily", 20, 0, []string{"extraordinarily"}},
	}
	for _, tt := range tests {
		if got := wrap(tm, tt.text, tt.width, tt.max); !slices.Equal(got, tt.want) {
			t.Errorf("wrap(%q, %g, %d) = %q, want %q", tt.text, tt.width, tt.max, got, tt.want)
		}
	}
}

func TestHumanize(t *testing.T) {
	for in, want := range map[string]string{
		"Microsoft.SendActivity": "Send Activity",
		"Contoso.HTTP":           "H T T P",
		"Plain":                  "Plain",
	} {
		if got := humanize(in); got != want {
			t.Errorf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}
