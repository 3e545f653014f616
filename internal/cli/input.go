package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/adaptiveflow/pkg/config"
	"github.com/matzehuels/adaptiveflow/pkg/errors"
	"github.com/matzehuels/adaptiveflow/pkg/pipeline"
)

// stdinPath reads the document from standard input.
const stdinPath = "-"

// readDocument reads a dialog document from path, or from stdin for "-".
func readDocument(path string, stdin io.Reader) ([]byte, error) {
	if path == stdinPath {
		data, err := io.ReadAll(io.LimitReader(stdin, errors.MaxDocumentBytes+1))
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	if err := errors.ValidateDocumentPath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// loadOptions reads the document and builds pipeline options from cfg.
func loadOptions(cmd *cobra.Command, cfg *config.Config, path string, trigger int) (pipeline.Options, error) {
	data, err := readDocument(path, cmd.InOrStdin())
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.OptionsFromConfig(*cfg)
	opts.Source = path
	opts.Document = data
	opts.Trigger = trigger
	return opts, nil
}

// addLayoutFlags registers the flags that change a layout. Their defaults
// only document the built-in config; unset flags never override it.
func addLayoutFlags(cmd *cobra.Command, trigger *int) {
	d := config.Default()
	cmd.Flags().IntVar(trigger, "trigger", 0, "trigger index when the document is an AdaptiveDialog")
	cmd.Flags().Bool("smart", d.Render.Smart, "reconcile estimates with measured card text")
	cmd.Flags().Float64("font-size", d.Render.FontSize, "card font size")
}

// addRenderFlags registers the flags that change rendered output.
func addRenderFlags(cmd *cobra.Command) {
	d := config.Default()
	cmd.Flags().StringP("style", "s", d.Render.Style, "visual style: simple, dark")
	cmd.Flags().StringSliceP("format", "f", d.Render.Formats, "output format(s): svg, png, pdf, json, dot")
	cmd.Flags().Float64("scale", d.Render.Scale, "PNG pixel density")
	cmd.Flags().Bool("menus", d.Render.Menus, "draw insertion menus on sequence edges")
}

// outputBase derives the base output path from the output and input paths.
// A known format extension on output is stripped.
func outputBase(output, input string) string {
	if output == "" {
		if input == stdinPath {
			return "flow"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if _, ok := pipeline.ContentTypes[strings.TrimPrefix(ext, ".")]; ok {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath names the file for one format. JSON gets a ".flow.json"
// suffix so that it never overwrites a .json input document.
func outputPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".flow.json"
	}
	return base + "." + format
}
