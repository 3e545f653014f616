package cli

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/cursor"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/pipeline"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// navigateCommand creates the interactive keyboard navigator.
func (c *CLI) navigateCommand() *cobra.Command {
	var trigger int

	cmd := &cobra.Command{
		Use:   "navigate [dialog.json]",
		Short: "Walk the flowchart with the keyboard",
		Long: `Walk the flowchart with the keyboard.

Arrow keys (or h/j/k/l) move focus to the nearest element in that
direction, tab and shift+tab step through the selection order, y copies
the selected id to the clipboard. Enter or q quits and prints the
selected id.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			opts, err := loadOptions(cmd, cfg, args[0], trigger)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			doc, err := pipeline.Load(cmd.Context(), opts)
			if err != nil {
				return err
			}
			scene, err := runner.Layout(cmd.Context(), doc, opts)
			if err != nil {
				return err
			}
			if len(scene.Elements) == 0 {
				printInfo("Nothing to navigate")
				return nil
			}

			m := newNavigateModel(scene, cursor.New(cfg.Navigation))
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if nm, ok := final.(navigateModel); ok && nm.focus.Selected != "" {
				fmt.Fprintln(cmd.OutOrStdout(), nm.focus.Selected)
			}
			return nil
		},
	}

	cmd.Flags().Float64("weight", cursor.DefaultPerpendicularWeight, "penalty for perpendicular misalignment")
	addLayoutFlags(cmd, &trigger)
	return cmd
}

// =============================================================================
// navigateModel - Interactive focus navigation
// =============================================================================

var navigateKeys = map[string]cursor.Command{
	"up":        cursor.Up,
	"k":         cursor.Up,
	"down":      cursor.Down,
	"j":         cursor.Down,
	"left":      cursor.Left,
	"h":         cursor.Left,
	"right":     cursor.Right,
	"l":         cursor.Right,
	"tab":       cursor.Next,
	"shift+tab": cursor.Previous,
}

// navigateModel is the bubbletea model for keyboard navigation.
type navigateModel struct {
	scene   *flow.Scene
	tracker *cursor.Tracker
	order   []cursor.Element
	focus   cursor.Result
	status  string
	height  int
}

func newNavigateModel(s *flow.Scene, t *cursor.Tracker) navigateModel {
	m := navigateModel{scene: s, tracker: t, height: 12}
	m.order = focusOrder(s.Elements)
	m.focus, _ = t.Move(s.Elements, "", cursor.Down)
	return m
}

// focusOrder sorts elements by selection id, nodes before their menus.
func focusOrder(elements []cursor.Element) []cursor.Element {
	ids := cursor.SelectableIDs(elements)
	rank := make(map[string]int, len(ids))
	for i, id := range ids {
		rank[id] = i
	}
	out := make([]cursor.Element, 0, len(elements))
	for _, id := range ids {
		for _, e := range elements {
			if e.SelectedID == id && e.IsNode {
				out = append(out, e)
			}
		}
		for _, e := range elements {
			if e.SelectedID == id && !e.IsNode {
				out = append(out, e)
			}
		}
	}
	for _, e := range elements {
		if _, ok := rank[e.SelectedID]; !ok {
			out = append(out, e)
		}
	}
	return out
}

func (m navigateModel) Init() tea.Cmd {
	return nil
}

func (m navigateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c", "esc", "enter":
			return m, tea.Quit
		case "y":
			if err := copyToClipboard(m.focus.Selected); err != nil {
				m.status = "clipboard unavailable: " + err.Error()
			} else {
				m.status = "copied " + m.focus.Selected
			}
			return m, nil
		}
		if cmd, ok := navigateKeys[key]; ok {
			next, moved := m.tracker.Move(m.scene.Elements, m.focus.Focused, cmd)
			m.focus = next
			m.status = ""
			if !moved {
				m.status = "no element " + cmd.String()
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m navigateModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Navigate"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←↑↓→ move  tab next  y copy  q quit"))
	b.WriteString("\n\n")

	idx := 0
	for i, e := range m.order {
		if e.FocusedID == m.focus.Focused {
			idx = i
		}
	}
	offset := max(0, min(idx-m.height/2, len(m.order)-m.height))
	end := min(offset+m.height, len(m.order))
	for i := offset; i < end; i++ {
		e := m.order[i]
		line := "  " + describeElement(m.scene, e)
		if i == idx {
			b.WriteString(listSelectedStyle.Render("▸ " + describeElement(m.scene, e)))
		} else if e.IsNode {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] ", idx+1, len(m.order))))
	b.WriteString(StyleHighlight.Render(m.focus.Selected))
	if m.status != "" {
		b.WriteString("  " + StyleWarning.Render(m.status))
	}
	return b.String()
}

// describeElement names an element by its node title or its role.
func describeElement(s *flow.Scene, e cursor.Element) string {
	switch {
	case e.IsEdgeMenu:
		for _, m := range s.Menus {
			if m.ID == e.FocusedID {
				return fmt.Sprintf("+ insert %s[%d]", m.ArrayPath, m.Index)
			}
		}
		return "+ " + e.FocusedID
	case e.IsInlineLink:
		if n, ok := s.Node(strings.TrimSuffix(e.FocusedID, "#link")); ok {
			return "↗ " + n.Link
		}
		return "↗ " + e.SelectedID
	}
	if n, ok := s.Node(e.FocusedID); ok {
		label := n.Title
		if label == "" {
			label = n.Kind
		}
		return fmt.Sprintf("%s  %s", label, StyleDim.Render(e.SelectedID))
	}
	return e.FocusedID
}
