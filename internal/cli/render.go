package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adaptiveflow/pkg/errors"
	"github.com/matzehuels/adaptiveflow/pkg/pipeline"
)

// renderCommand creates the render command for generating flowchart output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output   string
		trigger  int
		selected string
		detailed bool
		refresh  bool
	)

	cmd := &cobra.Command{
		Use:   "render [dialog.json]",
		Short: "Render a dialog document as a flowchart",
		Long: `Render a dialog document as a flowchart.

Formats: svg (default), png, pdf (requires rsvg-convert), json (flowchart
layout with construct tree) and dot (construct tree for Graphviz).

With a single format, -o names the output file ("-" writes to stdout).
With several formats, -o is the base path and each format gets its own
extension.`,
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
			opts.Selected = selected
			opts.Detailed = detailed
			opts.Refresh = refresh

			runner, err := c.newRunner(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.runRender(cmd.Context(), cmd, runner, opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&selected, "select", "", "highlight the action with this structural path")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label DOT nodes with ids and sizes")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached scenes and artifacts")
	addLayoutFlags(cmd, &trigger)
	addRenderFlags(cmd)

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, cmd *cobra.Command, runner *pipeline.Runner, opts pipeline.Options, output string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	if slices.Contains(opts.Formats, pipeline.FormatPDF) {
		logger.Debug("pdf output shells out to rsvg-convert")
	}

	spin := newSpinner(ctx, os.Stderr, "Rendering...")
	spin.Start()
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spin.StopWithError("Render failed")
		return err
	}
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}

	if output == stdinPath {
		if len(opts.Formats) != 1 {
			return errors.New(errors.ErrCodeInvalidInput, "writing to stdout needs exactly one format")
		}
		_, err := cmd.OutOrStdout().Write(result.Artifacts[opts.Formats[0]])
		return err
	}

	paths, err := writeArtifacts(result, opts, output)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d file(s)", len(paths)))

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.SceneHit && result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes one file per rendered format and returns the paths.
func writeArtifacts(result *pipeline.Result, opts pipeline.Options, output string) ([]string, error) {
	paths := make([]string, 0, len(opts.Formats))
	base := outputBase(output, opts.Source)
	for _, format := range opts.Formats {
		path := outputPath(base, format)
		if output != "" && len(opts.Formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
