// Package config loads adaptiveflow settings.
//
// Settings are layered, later layers overriding earlier ones:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, adaptiveflow.toml in the working directory unless a path
//     is given
//  3. ADAPTIVEFLOW_* environment variables, where the first underscore
//     after the prefix separates section and key
//     (ADAPTIVEFLOW_RENDER_FONT_SIZE sets render.font_size)
//  4. Command-line flags that were set explicitly
package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	kotoml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/adaptiveflow/pkg/core/flow/boundary"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/cursor"
	"github.com/matzehuels/adaptiveflow/pkg/core/flow/measure"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow"
	"github.com/matzehuels/adaptiveflow/pkg/core/render/flow/styles"
	"github.com/matzehuels/adaptiveflow/pkg/errors"
)

const (
	// FileName is the config file looked up in the working directory.
	FileName = "adaptiveflow.toml"
	// EnvPrefix prefixes every environment variable read.
	EnvPrefix = "ADAPTIVEFLOW_"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config holds all configuration.
type Config struct {
	Sizes      boundary.Sizes `koanf:"sizes"`
	Cache      Cache          `koanf:"cache"`
	Navigation cursor.Options `koanf:"navigation"`
	Render     Render         `koanf:"render"`
	Server     Server         `koanf:"server"`
	Watch      Watch          `koanf:"watch"`
}

// Cache configures boundary, scene and artifact caching.
type Cache struct {
	Backend   string        `koanf:"backend"`
	Capacity  int           `koanf:"capacity"`
	Dir       string        `koanf:"dir"`
	RedisAddr string        `koanf:"redis_addr"`
	RedisDB   int           `koanf:"redis_db"`
	Prefix    string        `koanf:"prefix"`
	TTL       time.Duration `koanf:"ttl"`
}

// Render configures layout text measurement and output.
type Render struct {
	Style     string   `koanf:"style"`
	Formats   []string `koanf:"formats"`
	Scale     float64  `koanf:"scale"`
	FontSize  float64  `koanf:"font_size"`
	Menus     bool     `koanf:"menus"`
	Smart     bool     `koanf:"smart"`
	MaxPasses int      `koanf:"max_passes"`
}

// Server configures the preview API.
type Server struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	MaxBodyBytes int64         `koanf:"max_body_bytes"`
}

// Watch configures change debouncing.
type Watch struct {
	QuietPeriod time.Duration `koanf:"quiet_period"`
	MaxWait     time.Duration `koanf:"max_wait"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Sizes: boundary.DefaultSizes(),
		Cache: Cache{
			Backend:  BackendFile,
			Capacity: measure.DefaultCapacity,
			Prefix:   "adaptiveflow:",
			TTL:      7 * 24 * time.Hour,
		},
		Navigation: cursor.DefaultOptions(),
		Render: Render{
			Style:     styles.DefaultName,
			Formats:   []string{"svg"},
			Scale:     2,
			FontSize:  flow.DefaultFontSize,
			Menus:     true,
			Smart:     true,
			MaxPasses: 64,
		},
		Server: Server{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			MaxBodyBytes: 4 << 20,
		},
		Watch: Watch{
			QuietPeriod: 150 * time.Millisecond,
			MaxWait:     2 * time.Second,
		},
	}
}

// FlagKeys maps command-line flag names to config keys. Flags not listed
// are not configuration.
var FlagKeys = map[string]string{
	"style":        "render.style",
	"format":       "render.formats",
	"scale":        "render.scale",
	"font-size":    "render.font_size",
	"menus":        "render.menus",
	"smart":        "render.smart",
	"cache":        "cache.backend",
	"cache-dir":    "cache.dir",
	"redis-addr":   "cache.redis_addr",
	"addr":         "server.addr",
	"quiet-period": "watch.quiet_period",
	"weight":       "navigation.perpendicular_weight",
}

// Load reads the configuration layers. An empty path reads FileName when it
// exists; an explicit path must exist. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(mapProvider(toMap(Default())), nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load defaults")
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
	} else if fileExists(FileName) {
		path = FileName
	}
	if path != "" {
		if err := k.Load(file.Provider(path), kotoml.Parser()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load environment")
	}

	if flags != nil {
		flagKey := func(f *pflag.Flag) (string, any) {
			key, ok := FlagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, flagKey), nil); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "load flags")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey turns ADAPTIVEFLOW_RENDER_FONT_SIZE into render.font_size.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	s := c.Sizes
	positive := []struct {
		name string
		v    float64
	}{
		{"node_width", s.NodeWidth}, {"node_height", s.NodeHeight},
		{"diamond_width", s.DiamondWidth}, {"diamond_height", s.DiamondHeight},
		{"loop_icon_size", s.LoopIconSize}, {"icon_brick_size", s.IconBrickSize},
		{"insert_point_size", s.InsertPointSize}, {"terminator_size", s.TerminatorSize},
	}
	for _, f := range positive {
		if f.v <= 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "sizes.%s must be positive, got %g", f.name, f.v)
		}
	}
	for _, v := range []float64{s.ElementGapY, s.BranchGapX, s.BranchGapY, s.MinBranchAxisSeparation, s.LoopMarginLeft, s.InvalidPromptMarginX} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "sizes: gaps and margins must not be negative, got %g", v)
		}
	}

	switch c.Cache.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q must be one of memory, file, redis, none", c.Cache.Backend)
	}
	if c.Cache.Capacity <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.capacity must be positive, got %d", c.Cache.Capacity)
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}

	if !styles.IsValid(c.Render.Style) {
		return errors.New(errors.ErrCodeInvalidConfig, "render.style %q is not one of %v", c.Render.Style, styles.Names())
	}
	if c.Render.Scale <= 0 || c.Render.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.scale and render.font_size must be positive")
	}
	if c.Render.MaxPasses <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "render.max_passes must be positive, got %d", c.Render.MaxPasses)
	}
	if c.Navigation.PerpendicularWeight < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "navigation.perpendicular_weight must not be negative")
	}
	if c.Watch.QuietPeriod <= 0 || c.Watch.MaxWait < c.Watch.QuietPeriod {
		return errors.New(errors.ErrCodeInvalidConfig, "watch.quiet_period must be positive and not above watch.max_wait")
	}
	return nil
}

// Encode writes c as TOML. Durations are written in time.Duration notation
// so that the output loads back unchanged.
func Encode(w io.Writer, c Config) error {
	if err := toml.NewEncoder(w).Encode(toMap(c)); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// toMap flattens c into the nested key layout koanf and the TOML file use.
func toMap(c Config) map[string]any {
	s := c.Sizes
	return map[string]any{
		"sizes": map[string]any{
			"node_width":                 s.NodeWidth,
			"node_height":                s.NodeHeight,
			"diamond_width":              s.DiamondWidth,
			"diamond_height":             s.DiamondHeight,
			"loop_icon_size":             s.LoopIconSize,
			"icon_brick_size":            s.IconBrickSize,
			"insert_point_size":          s.InsertPointSize,
			"terminator_size":            s.TerminatorSize,
			"element_gap_y":              s.ElementGapY,
			"branch_gap_x":               s.BranchGapX,
			"branch_gap_y":               s.BranchGapY,
			"min_branch_axis_separation": s.MinBranchAxisSeparation,
			"loop_margin_left":           s.LoopMarginLeft,
			"invalid_prompt_margin_x":    s.InvalidPromptMarginX,
		},
		"cache": map[string]any{
			"backend":    c.Cache.Backend,
			"capacity":   c.Cache.Capacity,
			"dir":        c.Cache.Dir,
			"redis_addr": c.Cache.RedisAddr,
			"redis_db":   c.Cache.RedisDB,
			"prefix":     c.Cache.Prefix,
			"ttl":        c.Cache.TTL.String(),
		},
		"navigation": map[string]any{
			"perpendicular_weight": c.Navigation.PerpendicularWeight,
		},
		"render": map[string]any{
			"style":      c.Render.Style,
			"formats":    c.Render.Formats,
			"scale":      c.Render.Scale,
			"font_size":  c.Render.FontSize,
			"menus":      c.Render.Menus,
			"smart":      c.Render.Smart,
			"max_passes": c.Render.MaxPasses,
		},
		"server": map[string]any{
			"addr":           c.Server.Addr,
			"read_timeout":   c.Server.ReadTimeout.String(),
			"write_timeout":  c.Server.WriteTimeout.String(),
			"max_body_bytes": c.Server.MaxBodyBytes,
		},
		"watch": map[string]any{
			"quiet_period": c.Watch.QuietPeriod.String(),
			"max_wait":     c.Watch.MaxWait.String(),
		},
	}
}

// mapProvider serves a nested map as a koanf provider.
type mapProvider map[string]any

func (p mapProvider) Read() (map[string]any, error) { return p, nil }

func (p mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("not implemented")
}
