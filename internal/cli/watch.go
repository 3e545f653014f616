package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adaptiveflow/pkg/config"
	"github.com/matzehuels/adaptiveflow/pkg/errors"
	"github.com/matzehuels/adaptiveflow/pkg/pipeline"
	"github.com/matzehuels/adaptiveflow/pkg/watcher"
)

// watchCommand re-renders a document every time it is saved.
func (c *CLI) watchCommand() *cobra.Command {
	var (
		output  string
		trigger int
	)

	cmd := &cobra.Command{
		Use:   "watch [dialog.json]",
		Short: "Re-render a dialog document whenever it changes",
		Long: `Re-render a dialog document whenever it changes.

Saves are coalesced: a render starts once the file has been quiet for
--quiet-period, or after watch.max_wait when it keeps changing. Boundary
estimates stay in memory between renders, so each render only
re-measures the constructs that changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == stdinPath {
				return errors.New(errors.ErrCodeInvalidInput, "cannot watch standard input")
			}
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			return c.runWatch(cmd.Context(), cmd, cfg, runner, args[0], trigger, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path")
	cmd.Flags().Duration("quiet-period", config.Default().Watch.QuietPeriod, "wait for this long without changes before rendering")
	addLayoutFlags(cmd, &trigger)
	addRenderFlags(cmd)
	return cmd
}

func (c *CLI) runWatch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, runner *pipeline.Runner, path string, trigger int, output string) error {
	logger := loggerFromContext(ctx)

	fw, err := watcher.NewFileWatcher([]string{path}, logger.WithPrefix("watch"))
	if err != nil {
		return err
	}
	deb := watcher.NewDebouncer(fw.Events(), cfg.Watch.QuietPeriod, cfg.Watch.MaxWait)
	fw.Start(ctx)
	deb.Start(ctx)

	build := func() {
		start := time.Now()
		paths, err := renderDocument(ctx, cmd, cfg, runner, path, trigger, output)
		if err != nil {
			printError("%s: %s", path, errors.UserMessage(err))
			return
		}
		printSuccess("Rendered %s in %s", path, time.Since(start).Round(time.Millisecond))
		for _, p := range paths {
			printFile(p)
		}
	}

	build()
	printInfo("Watching %s (ctrl+c to stop)", path)
	for change := range deb.Output() {
		logger.Debug("change", "paths", change.Paths, "events", change.Events)
		if _, err := os.Stat(path); err != nil {
			printWarning("%s is gone, waiting for it to come back", path)
			continue
		}
		build()
	}
	printNewline()
	return nil
}

// renderDocument reads path and renders it with the runner's caches.
func renderDocument(ctx context.Context, cmd *cobra.Command, cfg *config.Config, runner *pipeline.Runner, path string, trigger int, output string) ([]string, error) {
	opts, err := loadOptions(cmd, cfg, path, trigger)
	if err != nil {
		return nil, err
	}
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return nil, err
	}
	return writeArtifacts(result, opts, output)
}
