package config

import (
	"time"

	"github.com/matzehuels/netlayout/pkg/cache"
	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/force"
	"github.com/matzehuels/netlayout/pkg/layout"
)

// Config is the complete settings tree.
type Config struct {
	Layout    Layout       `toml:"layout" yaml:"layout"`
	Animation Animation    `toml:"animation" yaml:"animation"`
	Force     force.Params `toml:"force" yaml:"force"`
	Cache     Cache        `toml:"cache" yaml:"cache"`
	Server    Server       `toml:"server" yaml:"server"`
	Log       Log          `toml:"log" yaml:"log"`
}

// Layout mirrors layout.Options.
type Layout struct {
	EdgeBudget          int      `toml:"edge_budget" yaml:"edge_budget"`
	MinProgressInterval Duration `toml:"min_progress_interval" yaml:"min_progress_interval"`
	Accuracy            float64  `toml:"accuracy" yaml:"accuracy"`
	Timeout             Duration `toml:"timeout" yaml:"timeout"`
	Normalization       float64  `toml:"normalization" yaml:"normalization"`
}

// Animation mirrors layout.AnimationPolicy.
type Animation struct {
	Enabled       bool `toml:"enabled" yaml:"enabled"`
	VertexCeiling int  `toml:"vertex_ceiling" yaml:"vertex_ceiling"`
	EdgeCeiling   int  `toml:"edge_ceiling" yaml:"edge_ceiling"`
}

// Cache selects the layout and artifact cache backend.
type Cache struct {
	Backend    string   `toml:"backend" yaml:"backend"`
	Dir        string   `toml:"dir" yaml:"dir"`
	URL        string   `toml:"url" yaml:"url"`
	Database   string   `toml:"database" yaml:"database"`
	Collection string   `toml:"collection" yaml:"collection"`
	Prefix     string   `toml:"prefix" yaml:"prefix"`
	TTL        Duration `toml:"ttl" yaml:"ttl"`
}

// Server configures the HTTP service.
type Server struct {
	Addr            string   `toml:"addr" yaml:"addr"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxNodes        int      `toml:"max_nodes" yaml:"max_nodes"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level" yaml:"level"`
}

// Default returns the built-in settings.
func Default() *Config {
	opts := layout.DefaultOptions()
	policy := layout.DefaultAnimationPolicy()
	return &Config{
		Layout: Layout{
			EdgeBudget:          opts.EdgeBudget,
			MinProgressInterval: Duration(opts.MinProgressInterval),
			Accuracy:            opts.Accuracy,
			Timeout:             Duration(opts.Timeout),
		},
		Animation: Animation{
			Enabled:       policy.Enabled,
			VertexCeiling: policy.VertexCeiling,
			EdgeCeiling:   policy.EdgeCeiling,
		},
		Force: force.DefaultParams(),
		Cache: Cache{
			Backend: cache.BackendFile,
			Prefix:  "netlayout:",
			TTL:     Duration(7 * 24 * time.Hour),
		},
		Server: Server{
			Addr:            ":8080",
			ReadTimeout:     Duration(15 * time.Second),
			WriteTimeout:    Duration(60 * time.Second),
			ShutdownTimeout: Duration(10 * time.Second),
			MaxNodes:        20000,
		},
		Log: Log{Level: "info"},
	}
}

// LayoutOptions converts the layout section.
func (c *Config) LayoutOptions() layout.Options {
	return layout.Options{
		EdgeBudget:          c.Layout.EdgeBudget,
		MinProgressInterval: time.Duration(c.Layout.MinProgressInterval),
		Accuracy:            c.Layout.Accuracy,
		Timeout:             time.Duration(c.Layout.Timeout),
		Normalization:       c.Layout.Normalization,
	}
}

// Policy converts the animation section.
func (c *Config) Policy() layout.AnimationPolicy {
	return layout.AnimationPolicy{
		Enabled:       c.Animation.Enabled,
		VertexCeiling: c.Animation.VertexCeiling,
		EdgeCeiling:   c.Animation.EdgeCeiling,
	}
}

// CacheOptions converts the cache section.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:    c.Cache.Backend,
		Dir:        c.Cache.Dir,
		URL:        c.Cache.URL,
		Database:   c.Cache.Database,
		Collection: c.Cache.Collection,
		Prefix:     c.Cache.Prefix,
		TTL:        time.Duration(c.Cache.TTL),
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.LayoutOptions().Validate(); err != nil {
		return err
	}
	if err := c.Force.Validate(); err != nil {
		return err
	}
	if c.Animation.VertexCeiling < 0 || c.Animation.EdgeCeiling < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "animation ceilings cannot be negative")
	}
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile:
	case cache.BackendRedis, cache.BackendMongo:
		if c.Cache.URL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache backend %q needs a url", c.Cache.Backend)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl cannot be negative")
	}
	if c.Server.MaxNodes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server max_nodes cannot be negative")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown log level %q", c.Log.Level)
	}
	return nil
}
