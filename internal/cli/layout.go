package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adaptiveflow/pkg/graph"
	"github.com/matzehuels/adaptiveflow/pkg/pipeline"
)

// layoutCommand creates the layout command for computing flowchart layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output    string
		trigger   int
		withStats bool
	)

	cmd := &cobra.Command{
		Use:   "layout [dialog.json]",
		Short: "Compute the flowchart layout of a dialog document",
		Long: `Compute the flowchart layout of a dialog document.

The output is a flowchart JSON file with absolute node positions, edge
primitives, insertion menus, focusable elements and the construct tree.
Use "-" to read the document from stdin and "-o -" to write to stdout.

Results are cached; only constructs that changed are measured again.`,
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
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.runLayout(cmd.Context(), cmd, runner, opts, output, withStats)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.flow.json)")
	cmd.Flags().BoolVar(&withStats, "stats", false, "include layout statistics")
	addLayoutFlags(cmd, &trigger)

	return cmd
}

// runLayout loads the document, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, opts pipeline.Options, output string, withStats bool) error {
	doc, err := pipeline.Load(ctx, opts)
	if err != nil {
		return err
	}

	spin := newSpinner(ctx, os.Stderr, "Computing layout...")
	spin.Start()
	scene, cacheHit, err := runner.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		spin.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}

	exportOpts := []graph.ExportOption{graph.WithTree()}
	if withStats {
		exportOpts = append(exportOpts, graph.WithStats())
	}
	fc := graph.FromScene(scene, exportOpts...)

	if output == stdinPath {
		return graph.WriteFlowchart(fc, cmd.OutOrStdout())
	}
	if output == "" {
		output = outputPath(outputBase("", opts.Source), pipeline.FormatJSON)
	}
	if err := graph.WriteFlowchartFile(fc, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(scene.Nodes), len(scene.Edges), cacheHit)
	printNewline()
	printNextStep("Render", appName+" render "+opts.Source)

	return nil
}
