package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/pipeline"
)

// inspectCommand creates the inspect command that tabulates the measured
// constructs of a document.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		trigger    int
		selectable bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [dialog.json]",
		Short: "Show construct boundaries and selectable ids",
		Long: `Show construct boundaries and selectable ids.

Every container (root, branches, loops, prompts) is listed with its
estimated and final boundary and the state of its smart layout. With
--selectable, the selection ids are printed in selection order instead.`,
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
			s, err := runner.Layout(cmd.Context(), doc, opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if selectable {
				for _, id := range s.SelectableIDs() {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			fmt.Fprintln(out, StyleTitle.Render(opts.Source))
			fmt.Fprintln(out, containerTable(s))
			fmt.Fprintf(out, "%s %s  %s %s  %s %s\n",
				StyleDim.Render("size"), StyleNumber.Render(fmt.Sprintf("%gx%g", s.Width, s.Height)),
				StyleDim.Render("nodes"), StyleNumber.Render(fmt.Sprint(len(s.Nodes))),
				StyleDim.Render("passes"), StyleNumber.Render(fmt.Sprint(s.Stats.Passes)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&selectable, "selectable", false, "print selectable ids in selection order")
	addLayoutFlags(cmd, &trigger)
	return cmd
}

// containerTable renders the containers of s as a table.
func containerTable(s *flow.Scene) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(s.Containers))
	for _, ct := range s.Containers {
		id := ct.ID
		if id == "" {
			id = "(root)"
		}
		rows = append(rows, []string{
			strings.Repeat("  ", ct.Depth) + id,
			ct.Kind,
			fmtBoundary(ct.Estimate),
			fmtBoundary(ct.Boundary),
			ct.State,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Construct", "Kind", "Estimate", "Boundary", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			if row < len(s.Containers) && col == 3 && s.Containers[row].Estimate != s.Containers[row].Boundary {
				return base.Foreground(colorYellow)
			}
			if col == 0 {
				return base.Foreground(colorCyan)
			}
			return base.Foreground(colorGray)
		})
	return t.Render()
}

func fmtBoundary(b boundary.Boundary) string {
	return fmt.Sprintf("%g×%g @%g", b.Width, b.Height, b.AxisX)
}
