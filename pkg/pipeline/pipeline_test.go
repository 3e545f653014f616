package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/adaptiveflow/pkg/cache"
	"github.com/matzehuels/adaptiveflow/pkg/config"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/errors"
)

const testDoc = `{
	"$kind": "Microsoft.OnBeginDialog",
	"actions": [
		{"$kind": "Microsoft.SendActivity", "activity": "Hello"},
		{
			"$kind": "Microsoft.IfCondition",
			"condition": "user.age > 18",
			"actions": [{"$kind": "Microsoft.SendActivity", "activity": "Welcome"}],
			"elseActions": []
		},
		{"$kind": "Microsoft.EndDialog"}
	]
}`

const testDialog = `{
	"$kind": "Microsoft.AdaptiveDialog",
	"triggers": [
		{"$kind": "Microsoft.OnBeginDialog", "actions": [{"$kind": "Microsoft.SendActivity"}]},
		{"$kind": "Microsoft.OnUnknownIntent", "actions": [{"$kind": "Microsoft.EndDialog"}, {"$kind": "Microsoft.EndDialog"}]}
	]
}`

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateStyle(t *testing.T) {
	tests := []struct {
		style   string
		wantErr bool
	}{
		{"simple", false},
		{"dark", false},
		{"handdrawn", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateStyle(tt.style)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateStyle(%q) error = %v, wantErr %v", tt.style, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForLoad(); !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("Missing document error = %v", err)
	}

	opts = Options{Document: []byte(testDoc), Trigger: -1}
	if err := opts.ValidateForLoad(); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Negative trigger error = %v", err)
	}

	opts = Options{Document: []byte(testDoc)}
	if err := opts.ValidateForLoad(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.Source == "" {
		t.Error("Source should default")
	}
}

func TestOptionsValidateForRender(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "neon"}, errors.ErrCodeInvalidStyle},
		{"bad selection", Options{Selected: "actions[x]"}, errors.ErrCodeInvalidSelectionID},
		{"bad scale", Options{Scale: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForRender()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateForRender() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.Sizes != boundary.DefaultSizes() {
		t.Errorf("Sizes should default, got %+v", opts.Sizes)
	}
	if opts.FontSize <= 0 {
		t.Errorf("FontSize should be positive, got %g", opts.FontSize)
	}
	if opts.MaxPasses != DefaultMaxPasses {
		t.Errorf("MaxPasses should be %d, got %d", DefaultMaxPasses, opts.MaxPasses)
	}
	if opts.Logger == nil {
		t.Error("Logger should default")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style should be %s, got %s", DefaultStyle, opts.Style)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %g, got %g", DefaultScale, opts.Scale)
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	a := Options{Style: "simple", Scale: 2}
	b := Options{Style: "dark", Scale: 3}

	if a.ArtifactKeyOpts(FormatJSON) != b.ArtifactKeyOpts(FormatJSON) {
		t.Error("JSON key should not depend on style or scale")
	}
	if a.ArtifactKeyOpts(FormatSVG) == b.ArtifactKeyOpts(FormatSVG) {
		t.Error("SVG key should depend on style")
	}
	if a.ArtifactKeyOpts(FormatSVG).Scale != 0 {
		t.Error("SVG key should not depend on scale")
	}
	if b.ArtifactKeyOpts(FormatPNG).Scale != 3 {
		t.Error("PNG key should carry scale")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	c := config.Default()
	c.Render.Style = "dark"
	c.Render.Formats = []string{"png"}
	c.Sizes.NodeWidth = 240

	opts := OptionsFromConfig(c)
	if opts.Style != "dark" || opts.Sizes.NodeWidth != 240 || opts.Formats[0] != "png" {
		t.Errorf("OptionsFromConfig() = %+v", opts)
	}
	opts.Formats[0] = "svg"
	if c.Render.Formats[0] != "png" {
		t.Error("OptionsFromConfig aliases the config formats")
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	doc, err := Load(ctx, Options{Document: []byte(testDialog), Trigger: 1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.Path != "triggers[1]" || len(doc.Triggers) != 2 {
		t.Errorf("Load() path = %q, triggers = %v", doc.Path, doc.Triggers)
	}

	_, err = Load(ctx, Options{Document: []byte(testDialog), Trigger: 5})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("out of range trigger error = %v", err)
	}

	_, err = Load(ctx, Options{Document: []byte(`{"actions":`)})
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("truncated document error = %v", err)
	}
}

func TestDocumentHash(t *testing.T) {
	ctx := context.Background()
	a, _ := Load(ctx, Options{Document: []byte(testDialog), Trigger: 0})
	b, _ := Load(ctx, Options{Document: []byte(testDialog), Trigger: 1})
	c, _ := Load(ctx, Options{Document: []byte(testDoc)})
	d, _ := Load(ctx, Options{Document: []byte(strings.ReplaceAll(testDoc, "\n", " "))})

	if DocumentHash(a) == DocumentHash(b) {
		t.Error("different triggers share a hash")
	}
	if DocumentHash(c) != DocumentHash(d) {
		t.Error("whitespace changed the document hash")
	}
}

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	defer runner.Close()

	opts := Options{
		Source:   "test.json",
		Document: []byte(testDoc),
		Formats:  []string{FormatSVG, FormatJSON, FormatDOT},
		Menus:    true,
	}

	first, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.SceneHit || first.CacheInfo.RenderHit {
		t.Errorf("first run CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.Stats.ActionCount != 3 || first.Stats.NodeCount == 0 || first.Stats.EdgeCount == 0 {
		t.Errorf("Stats = %+v", first.Stats)
	}
	if !bytes.HasPrefix(first.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact missing")
	}
	if !bytes.HasPrefix(first.Artifacts[FormatDOT], []byte("digraph")) {
		t.Error("dot artifact missing")
	}
	if !bytes.Contains(first.Artifacts[FormatJSON], []byte(`"viz_type": "flowchart"`)) {
		t.Error("json artifact missing")
	}

	second, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if !second.CacheInfo.SceneHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if second.SceneHash != first.SceneHash {
		t.Error("cached scene hashes differently")
	}
	for format, data := range first.Artifacts {
		if !bytes.Equal(second.Artifacts[format], data) {
			t.Errorf("cached %s differs", format)
		}
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute (refresh): %v", err)
	}
	if third.CacheInfo.SceneHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", third.CacheInfo)
	}
	// Estimates survive in the runner's boundary cache.
	if third.Scene.Stats.Computed != 0 {
		t.Errorf("refresh recomputed %d boundaries", third.Scene.Stats.Computed)
	}
}

func TestRunnerRenderPartialHit(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	opts := Options{Document: []byte(testDoc)}

	doc, err := Load(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	scene, err := runner.Layout(ctx, doc, opts)
	if err != nil {
		t.Fatal(err)
	}

	opts.Formats = []string{FormatSVG}
	if _, hit, err := runner.RenderWithCacheInfo(ctx, scene, opts); err != nil || hit {
		t.Fatalf("first render hit=%v err=%v", hit, err)
	}
	opts.Formats = []string{FormatSVG, FormatDOT}
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, scene, opts)
	if err != nil || hit {
		t.Fatalf("partial render hit=%v err=%v", hit, err)
	}
	if len(artifacts) != 2 {
		t.Errorf("artifacts = %d, want 2", len(artifacts))
	}
	if _, hit, _ := runner.RenderWithCacheInfo(ctx, scene, opts); !hit {
		t.Error("third render should be served from cache")
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	ctx := context.Background()

	_, err := runner.Execute(ctx, Options{Document: []byte(`42`)})
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("scalar document error = %v", err)
	}
	_, err = runner.Execute(ctx, Options{Document: []byte(testDoc), Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("bad format error = %v", err)
	}
}

func TestSceneCacheIgnoresCorruptEntry(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache()
	runner := NewRunner(mem, nil, nil)
	opts := Options{Document: []byte(testDoc)}
	opts.SetLayoutDefaults()

	doc, _ := Load(ctx, opts)
	key := runner.Keyer.SceneKey(DocumentHash(doc), opts.SceneKeyOpts())
	if err := mem.Set(ctx, key, []byte("not json"), 0); err != nil {
		t.Fatal(err)
	}

	s, hit, err := runner.LayoutWithCacheInfo(ctx, doc, opts)
	if err != nil || hit {
		t.Fatalf("LayoutWithCacheInfo hit=%v err=%v", hit, err)
	}
	if len(s.Nodes) == 0 {
		t.Error("recomputed scene is empty")
	}
}
