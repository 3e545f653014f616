package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/adaptiveflow/pkg/cache"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
	"github.com/matzehuels/adaptiveflow/pkg/observability"
)

// Load parses opts.Document and selects the action list to lay out.
func Load(ctx context.Context, opts Options) (*dialog.Document, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Source)
	start := time.Now()

	doc, err := dialog.Parse(opts.Document, dialog.ParseOptions{Trigger: opts.Trigger})
	count := 0
	if err == nil {
		count = len(doc.Root.Nodes(dialog.FieldActions))
	}
	hooks.OnLoadComplete(ctx, opts.Source, count, time.Since(start), err)
	return doc, err
}

// DocumentHash identifies a loaded document for scene caching.
func DocumentHash(doc *dialog.Document) string {
	return cache.HashParts([]byte(doc.Path), dialog.Canonical(doc.Root))
}
