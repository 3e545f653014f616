package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/edge"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/measure"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/observability"
)

// =============================================================================
// Layout Generation
// =============================================================================

// Layout builds the positioned scene of doc. Estimates are memoized in c;
// a nil c uses a fresh in-memory cache.
//
// Smart layout measures card text with the embedded Go font when it can be
// loaded and with a width estimate otherwise.
func Layout(ctx context.Context, doc *dialog.Document, c measure.Cache, opts Options) *flow.Scene {
	opts.SetLayoutDefaults()
	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(doc.Root.Nodes(dialog.FieldActions)))
	start := time.Now()

	fo := flow.Options{
		Sizes:     opts.Sizes,
		Cache:     c,
		Smart:     opts.Smart,
		FontSize:  opts.FontSize,
		Menus:     true,
		Edge:      edge.DefaultOptions(),
		MaxPasses: opts.MaxPasses,
	}
	if opts.Smart {
		if tm, err := flow.NewFontMeasurer(opts.FontSize); err == nil {
			fo.Text = tm
		} else {
			opts.Logger.Warn("font measurer unavailable, estimating text width", "error", err)
		}
	}

	s := flow.Build(doc, fo)
	hooks.OnLayoutComplete(ctx, len(s.Nodes), time.Since(start), nil)
	return s
}
