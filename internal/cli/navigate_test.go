package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/cursor"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
)

func navScene() *flow.Scene {
	return &flow.Scene{
		Nodes: []flow.Node{
			{ID: "actions[0]", Owner: "actions[0]", Kind: "action", Title: "Send a response", X: 0, Y: 0, W: 180, H: 62},
			{ID: "actions[1]", Owner: "actions[1]", Kind: "action", Title: "End dialog", X: 0, Y: 100, W: 180, H: 62},
		},
		Menus: []flow.Menu{{ID: "actions/menu/1", ArrayPath: "actions", Index: 1, X: 90, Y: 81, Size: 16}},
		Elements: []cursor.Element{
			{SelectedID: "actions[1]", FocusedID: "actions[1]", IsNode: true, Bounds: cursor.Rect{X: 0, Y: 100, Width: 180, Height: 62}},
			{FocusedID: "actions/menu/1", IsEdgeMenu: true, Bounds: cursor.Rect{X: 82, Y: 73, Width: 16, Height: 16}},
			{SelectedID: "actions[0]", FocusedID: "actions[0]", IsNode: true, Bounds: cursor.Rect{X: 0, Y: 0, Width: 180, Height: 62}},
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m navigateModel, msg tea.Msg) (navigateModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(navigateModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestFocusOrder(t *testing.T) {
	order := focusOrder(navScene().Elements)
	var got []string
	for _, e := range order {
		got = append(got, e.FocusedID)
	}
	want := "actions[0] actions[1] actions/menu/1"
	if strings.Join(got, " ") != want {
		t.Errorf("focusOrder = %v, want %s", got, want)
	}
}

func TestNavigateModelStartsAtFirst(t *testing.T) {
	m := newNavigateModel(navScene(), cursor.New(cursor.DefaultOptions()))
	if m.focus.Selected != "actions[0]" {
		t.Errorf("initial selection = %q, want actions[0]", m.focus.Selected)
	}
}

func TestNavigateModelMoves(t *testing.T) {
	m := newNavigateModel(navScene(), cursor.New(cursor.DefaultOptions()))

	m, _ = update(t, m, key("down"))
	if m.focus.Selected != "actions[1]" {
		t.Errorf("after down selection = %q, want actions[1]", m.focus.Selected)
	}
	m, _ = update(t, m, key("j"))
	if m.status == "" || m.focus.Selected != "actions[1]" {
		t.Errorf("moving past the last node = (%q, %q), want a status and no move", m.focus.Selected, m.status)
	}
	m, _ = update(t, m, key("k"))
	if m.focus.Selected != "actions[0]" {
		t.Errorf("after k selection = %q, want actions[0]", m.focus.Selected)
	}
	if m.status != "" {
		t.Errorf("status not cleared: %q", m.status)
	}
}

func TestNavigateModelCopy(t *testing.T) {
	var copied string
	orig := copyToClipboard
	defer func() { copyToClipboard = orig }()

	copyToClipboard = func(s string) error {
		copied = s
		return nil
	}
	m := newNavigateModel(navScene(), cursor.New(cursor.DefaultOptions()))
	m, _ = update(t, m, key("y"))
	if copied != "actions[0]" {
		t.Errorf("copied %q, want actions[0]", copied)
	}
	if !strings.Contains(m.status, "copied") {
		t.Errorf("status = %q", m.status)
	}

	copyToClipboard = func(string) error { return errors.New("no display") }
	m, _ = update(t, m, key("y"))
	if !strings.Contains(m.status, "no display") {
		t.Errorf("status = %q, want clipboard error", m.status)
	}
}

func TestNavigateModelQuit(t *testing.T) {
	m := newNavigateModel(navScene(), cursor.New(cursor.DefaultOptions()))
	for _, k := range []string{"q", "esc"} {
		msg := key(k)
		if k == "esc" {
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		}
		_, cmd := update(t, m, msg)
		if cmd == nil {
			t.Fatalf("%s: no command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s did not quit", k)
		}
	}
}

func TestNavigateView(t *testing.T) {
	m := newNavigateModel(navScene(), cursor.New(cursor.DefaultOptions()))
	view := m.View()
	for _, want := range []string{"Send a response", "End dialog", "insert actions[1]", "[1/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
