package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adaptiveflow/pkg/cache"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/dialog"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/measure"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/graph"
	"github.com/matzehuels/adaptiveflow/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the watcher and the server share this to avoid duplicating
// caching logic.
//
// Besides the byte cache, a Runner keeps an in-process LRU of boundary
// estimates in front of it, so repeated layouts of an edited document only
// re-measure the constructs that changed. Multiple goroutines can safely
// use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides the default scene and artifact lifetimes when non-zero.
	TTL time.Duration

	boundaries *measure.LRU
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	return NewRunnerWithCapacity(c, keyer, logger, measure.DefaultCapacity)
}

// NewRunnerWithCapacity is NewRunner with an explicit boundary LRU size.
func NewRunnerWithCapacity(c cache.Cache, keyer cache.Keyer, logger *log.Logger, capacity int) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:      c,
		Keyer:      keyer,
		Logger:     logger,
		boundaries: measure.NewLRU(capacity),
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	doc, err := Load(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Document = doc
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.ActionCount = len(doc.Root.Nodes(dialog.FieldActions))

	r.Logger.Debug("loaded document",
		"source", opts.Source,
		"actions", result.Stats.ActionCount,
		"triggers", len(doc.Triggers),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	scene, sceneHit, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Scene = scene
	result.SceneHash = SceneHash(scene)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(scene.Nodes)
	result.Stats.EdgeCount = len(scene.Edges)
	result.CacheInfo.SceneHit = sceneHit

	r.Logger.Info("computed layout",
		"nodes", len(scene.Nodes),
		"size", fmt.Sprintf("%gx%g", scene.Width, scene.Height),
		"cached", sceneHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.renderWithHash(ctx, scene, result.SceneHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo builds the scene of doc with caching and reports
// whether it came from the scene cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, doc *dialog.Document, opts Options) (*flow.Scene, bool, error) {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()

	cacheKey := r.Keyer.SceneKey(DocumentHash(doc), opts.SceneKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if s, err := decodeScene(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "scene")
				return s, true, nil
			}
			// A stale or corrupt entry falls through to recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "scene")
	}

	s := Layout(ctx, doc, r.boundaryCache(ctx), opts)

	if data, err := graph.MarshalFlowchart(graph.FromScene(s, graph.WithStats())); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLScene)); err == nil {
			observability.Cache().OnCacheSet(ctx, "scene", len(data))
		} else {
			r.Logger.Debug("scene cache write failed", "error", err)
		}
	}
	return s, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, doc *dialog.Document, opts Options) (*flow.Scene, error) {
	s, _, err := r.LayoutWithCacheInfo(ctx, doc, opts)
	return s, err
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every artifact came from cache. Only the formats that miss are rendered.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *flow.Scene, opts Options) (map[string][]byte, bool, error) {
	return r.renderWithHash(ctx, s, SceneHash(s), opts)
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *flow.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
}

func (r *Runner) renderWithHash(ctx context.Context, s *flow.Scene, sceneHash string, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	renderOpts := opts
	renderOpts.Formats = missing
	rendered, err := Render(ctx, s, renderOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return artifacts, false, nil
}

// boundaryCache layers the runner's LRU over the byte cache.
func (r *Runner) boundaryCache(ctx context.Context) measure.Cache {
	return measure.Tiered(r.boundaries, measure.NewStoreCache(ctx, r.Cache, cache.TTLBoundary))
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// SceneHash identifies a scene's geometry for artifact caching.
func SceneHash(s *flow.Scene) string {
	data, err := graph.MarshalFlowchart(graph.FromScene(s))
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

func decodeScene(data []byte) (*flow.Scene, error) {
	fc, err := graph.UnmarshalFlowchart(data)
	if err != nil {
		return nil, err
	}
	return graph.ToScene(fc)
}
