package cli

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netlayout/pkg/cache"
	"github.com/matzehuels/netlayout/pkg/config"
	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/observability"
	"github.com/matzehuels/netlayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "netlayout"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and default
// configuration. The configuration is replaced when a command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads .env, the --config file and NETLAYOUT_* variables, then
// applies the configured log level. --verbose forces debug logging and
// reports layout events through the observability hooks.
func (c *CLI) loadConfig() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	if c.verbose {
		c.SetLogLevel(LogDebug)
		observability.SetLayoutHooks(observability.LogLayoutHooks{Logger: c.Logger})
		return nil
	}
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	c.SetLogLevel(level)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// Callers close runner.Cache when done.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	opts := c.Config.CacheOptions()
	if noCache {
		opts.Backend = cache.BackendNone
	}
	ch, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, nil, c.Logger)
	r.TTL = opts.TTL
	return r, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// sourceFlags are the network source flags shared by the generate, layout,
// render and watch commands.
type sourceFlags struct {
	kind string
	opts pipeline.Options
}

func addSourceFlags(cmd *cobra.Command, f *sourceFlags) {
	fl := cmd.Flags()
	fl.StringVarP(&f.kind, "kind", "k", network.KindScaleFree.String(), "generator: "+strings.Join(network.Kinds(), ", "))
	fl.StringVar(&f.opts.Name, "name", "", "network name (default: derived from the generator)")
	fl.IntVarP(&f.opts.Nodes, "nodes", "n", pipeline.DefaultNodes, "node count (random, scale-free)")
	fl.IntVar(&f.opts.Rows, "rows", pipeline.DefaultRows, "lattice rows")
	fl.IntVar(&f.opts.Cols, "cols", pipeline.DefaultCols, "lattice columns")
	fl.IntVar(&f.opts.Levels, "levels", pipeline.DefaultLevels, "hierarchy depth")
	fl.IntVar(&f.opts.Branching, "branching", pipeline.DefaultBranching, "hierarchy branching factor")
	fl.Float64Var(&f.opts.Probability, "probability", pipeline.DefaultProbability, "link probability (random)")
	fl.IntVar(&f.opts.Attach, "attach", pipeline.DefaultAttach, "links per new node (scale-free)")
	fl.Uint64Var(&f.opts.Seed, "seed", pipeline.DefaultSeed, "generator seed")
}

// layoutFlags override layout settings from the configuration when set.
type layoutFlags struct {
	accuracy   float64
	timeout    time.Duration
	edgeBudget int
	animate    bool
}

func addLayoutFlags(cmd *cobra.Command, f *layoutFlags) {
	fl := cmd.Flags()
	fl.Float64Var(&f.accuracy, "accuracy", 0, "convergence tolerance (default from config)")
	fl.DurationVar(&f.timeout, "timeout", 0, "layout time limit, e.g. 30s (default from config)")
	fl.IntVar(&f.edgeBudget, "edge-budget", 0, "work per slice in summed out-degrees (default from config)")
	fl.BoolVar(&f.animate, "animate", true, "draw intermediate frames for small networks")
}

// options builds pipeline options from the configuration, the source
// arguments and any flags the user set explicitly.
func (c *CLI) options(cmd *cobra.Command, args []string, src *sourceFlags, lf *layoutFlags) (pipeline.Options, error) {
	opts := src.opts
	if len(args) > 0 {
		opts.Kind = network.KindCustom
		opts.Path = args[0]
	} else {
		kind, err := network.ParseKind(src.kind)
		if err != nil {
			return opts, err
		}
		opts.Kind = kind
	}

	opts.Layout = c.Config.LayoutOptions()
	opts.Force = c.Config.Force
	opts.Animation = c.Config.Policy()
	opts.Logger = c.Logger
	if lf != nil {
		fl := cmd.Flags()
		if fl.Changed("accuracy") {
			opts.Layout.Accuracy = lf.accuracy
		}
		if fl.Changed("timeout") {
			opts.Layout.Timeout = lf.timeout
		}
		if fl.Changed("edge-budget") {
			opts.Layout.EdgeBudget = lf.edgeBudget
		}
		if fl.Changed("animate") {
			opts.Animation.Enabled = lf.animate
		}
	}
	opts.SetDefaults()
	return opts, opts.Validate()
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
