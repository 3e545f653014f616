package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/adaptiveflow/pkg/core/render"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow/sink"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow/styles"
	"github.com/matzehuels/adaptiveflow/pkg/errors"
	"github.com/matzehuels/adaptiveflow/pkg/graph"
	"github.com/matzehuels/adaptiveflow/pkg/observability"
)

// Render generates output artifacts in the requested formats.
func Render(ctx context.Context, s *flow.Scene, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts := make(map[string][]byte, len(opts.Formats))
	var err error
	for _, format := range opts.Formats {
		var data []byte
		if data, err = RenderFormat(ctx, s, format, opts); err != nil {
			break
		}
		artifacts[format] = data
	}
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// RenderFormat renders a single format. opts must already carry defaults.
func RenderFormat(ctx context.Context, s *flow.Scene, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		svgOpts, err := buildSVGOptions(opts)
		if err != nil {
			return nil, err
		}
		return sink.RenderSVG(s, svgOpts...), nil

	case FormatPDF:
		svgOpts, err := buildSVGOptions(opts)
		if err != nil {
			return nil, err
		}
		data, err := sink.RenderPDF(ctx, s, sink.WithPDFSVGOptions(svgOpts...))
		if stderrors.Is(err, render.ErrNoConverter) {
			return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "render pdf: %v", err)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render pdf")
		}
		return data, nil

	case FormatPNG:
		style, err := styles.Lookup(opts.Style)
		if err != nil {
			return nil, err
		}
		pngOpts := []sink.PNGOption{sink.WithScale(opts.Scale), sink.WithPNGStyle(style)}
		if opts.Menus {
			pngOpts = append(pngOpts, sink.WithPNGMenus())
		}
		return sink.RenderPNG(s, pngOpts...)

	case FormatJSON:
		return sink.RenderJSON(s, graph.WithStats())

	case FormatDOT:
		return []byte(sink.ToDOT(s, sink.DOTOptions{Detailed: opts.Detailed})), nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}

func buildSVGOptions(opts Options) ([]sink.SVGOption, error) {
	style, err := styles.Lookup(opts.Style)
	if err != nil {
		return nil, err
	}
	out := []sink.SVGOption{sink.WithStyle(style)}
	if opts.Menus {
		out = append(out, sink.WithMenus())
	}
	if opts.Selected != "" {
		out = append(out, sink.WithSelected(opts.Selected))
	}
	return out, nil
}
