package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/matzehuels/adaptiveflow/pkg/errors"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	got, err := Load("", nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if want := Default(); !reflect.DeepEqual(*got, want) {
		t.Errorf("Load() = %+v, want %+v", *got, want)
	}
}

func TestLoadLayers(t *testing.T) {
	path := writeFile(t, `
[sizes]
node_width = 240.0

[render]
style = "dark"
scale = 1.5

[watch]
quiet_period = "300ms"
`)
	t.Setenv("ADAPTIVEFLOW_RENDER_FONT_SIZE", "14")
	t.Setenv("ADAPTIVEFLOW_CACHE_BACKEND", "memory")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("style", "simple", "")
	flags.Float64("scale", 2, "")
	flags.Bool("verbose", false, "")
	if err := flags.Parse([]string{"--scale", "3", "--verbose"}); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path, flags)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name      string
		got, want any
	}{
		{"file size", got.Sizes.NodeWidth, 240.0},
		{"untouched size", got.Sizes.NodeHeight, Default().Sizes.NodeHeight},
		{"file style beats unset flag", got.Render.Style, "dark"},
		{"env font size", got.Render.FontSize, 14.0},
		{"env backend", got.Cache.Backend, BackendMemory},
		{"set flag beats file", got.Render.Scale, 3.0},
		{"file duration", got.Watch.QuietPeriod, 300 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    errors.Code
	}{
		{"bad backend", "[cache]\nbackend = \"s3\"\n", errors.ErrCodeInvalidConfig},
		{"negative size", "[sizes]\nnode_height = -1.0\n", errors.ErrCodeInvalidConfig},
		{"unknown style", "[render]\nstyle = \"neon\"\n", errors.ErrCodeInvalidConfig},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", errors.ErrCodeInvalidConfig},
		{"quiet above max wait", "[watch]\nquiet_period = \"5s\"\nmax_wait = \"1s\"\n", errors.ErrCodeInvalidConfig},
		{"malformed toml", "[render\n", errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.content), nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("Load() error = %v, want code %s", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodeLoadsBack(t *testing.T) {
	want := Default()
	want.Render.Style = "dark"
	want.Watch.MaxWait = 5 * time.Second

	var buf bytes.Buffer
	if err := Encode(&buf, want); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(buf.String(), "[render]") || !strings.Contains(buf.String(), `max_wait = "5s"`) {
		t.Errorf("Encode() output:\n%s", buf.String())
	}

	got, err := Load(writeFile(t, buf.String()), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(*got, want) {
		t.Errorf("round trip = %+v, want %+v", *got, want)
	}
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"ADAPTIVEFLOW_RENDER_FONT_SIZE":                "render.font_size",
		"ADAPTIVEFLOW_CACHE_REDIS_ADDR":                "cache.redis_addr",
		"ADAPTIVEFLOW_SIZES_NODE_WIDTH":                "sizes.node_width",
		"ADAPTIVEFLOW_NAVIGATION_PERPENDICULAR_WEIGHT": "navigation.perpendicular_weight",
	}
	for in, want := range tests {
		if got := envKey(in); got != want {
			t.Errorf("envKey(%s) = %s, want %s", in, got, want)
		}
	}
}
