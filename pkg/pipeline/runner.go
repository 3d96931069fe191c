package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netlayout/pkg/cache"
	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/force"
	"github.com/matzehuels/netlayout/pkg/host"
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/render"
)

// Runner executes the pipeline with caching. It holds no per-run state, so
// one Runner can serve concurrent runs with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration // expiry for stored layouts and artifacts; zero never expires
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means the default keyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
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
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Result holds the outputs of a pipeline run.
type Result struct {
	// Network is the laid-out network.
	Network *network.Network

	// Hash is the topology hash of the network.
	Hash string

	// Status is HasLayout after a layout, or NoLayout for static networks.
	Status layout.Status

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains run statistics. Whether a session converged or hit its
// timeout is not reported: both are complete layouts.
type Stats struct {
	Nodes      int
	Edges      int
	Passes     int
	Frames     int
	LayoutTime time.Duration
	RenderTime time.Duration
	CacheHit   bool // positions came from the cache
}

// Outcome describes a finished layout stage.
type Outcome struct {
	Status   layout.Status
	Key      string // layout cache key, also the artifact key base
	Passes   int
	Frames   int
	CacheHit bool
}

// Execute runs build → layout → render.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	net, err := Build(opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result := &Result{
		Network: net,
		Hash:    net.Hash(),
		Stats:   Stats{Nodes: net.NodeCount(), Edges: net.LinkCount()},
	}
	opts.Logger.Info("built network",
		"network", net.Name,
		"kind", net.Kind,
		"nodes", net.NodeCount(),
		"links", net.LinkCount())

	layoutStart := time.Now()
	out, err := r.Layout(ctx, net, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Status = out.Status
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Passes = out.Passes
	result.Stats.Frames = out.Frames
	result.Stats.CacheHit = out.CacheHit
	opts.Logger.Info("computed layout",
		"status", out.Status,
		"passes", out.Passes,
		"cache_hit", out.CacheHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, err := r.Render(ctx, net, out, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Layout brings net to a drawable status. Positions are restored from the
// cache when possible; otherwise a session runs to completion on a private
// host loop. Cancelling ctx pauses the session and returns ctx.Err().
func (r *Runner) Layout(ctx context.Context, net *network.Network, opts Options) (Outcome, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()

	initial := InitialStatus(net)
	out := Outcome{
		Status: initial,
		Key:    r.Keyer.LayoutKey(net.Hash(), opts.LayoutKeyOpts(net, initial)),
	}
	if initial == layout.NoLayout {
		return out, r.finalFrame(net, &out, opts)
	}
	if opts.KeepPositions && initial == layout.AdjustLayout {
		out.Status = layout.HasLayout
		return out, r.finalFrame(net, &out, opts)
	}

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, out.Key); err == nil && hit {
			var ps []network.Position
			if err := json.Unmarshal(data, &ps); err == nil && net.ApplyPositions(ps) == nil {
				out.Status = layout.HasLayout
				out.CacheHit = true
				return out, r.finalFrame(net, &out, opts)
			}
			// A stale or corrupt entry is recomputed and overwritten.
		}
	}

	loop := host.New()
	var anim *render.Animator
	if opts.Frames != nil {
		anim = render.NewAnimator(net, opts.Animation, opts.Frames, opts.Logger)
	}
	listener := layout.ListenerFuncs{
		Progress: func(ratio float64) {
			if opts.Progress != nil {
				opts.Progress(ratio)
			}
			if anim != nil {
				anim.OnProgress(ratio)
			}
		},
		Complete: func() {
			if anim != nil {
				anim.OnComplete()
			}
		},
	}
	sess := layout.NewSession(layout.Config{
		Name:      net.Name,
		Relaxer:   force.New(net, opts.Force),
		Scheduler: loop,
		Listener:  listener,
		Options:   opts.Layout,
		Initial:   initial,
		Logger:    opts.Logger,
	})
	if anim != nil {
		anim.Attach(sess)
	}

	sess.RequestLayout(ctx, net)
	loop.Drain()

	out.Status = sess.Status()
	out.Passes = sess.Passes()
	if anim != nil {
		out.Frames = anim.Frames()
		if err := anim.Err(); err != nil {
			return out, fmt.Errorf("write frame: %w", err)
		}
	}
	if out.Status != layout.HasLayout {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		return out, errors.New(errors.ErrCodeInternal, "layout of %s stopped in status %s", net.Name, out.Status)
	}

	if data, err := json.Marshal(net.Positions()); err == nil {
		if err := r.Cache.Set(ctx, out.Key, data, r.TTL); err != nil {
			opts.Logger.Warn("cache layout", "key", out.Key, "err", err)
		}
	}
	return out, nil
}

// finalFrame sends the one frame of a layout that did not run a session.
func (r *Runner) finalFrame(net *network.Network, out *Outcome, opts Options) error {
	if opts.Frames == nil {
		return nil
	}
	out.Frames = 1
	if err := opts.Frames.WriteFrame(render.Capture(net, out.Status)); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// Render produces every requested format from the current positions of
// net, using cached artifacts where available.
func (r *Runner) Render(ctx context.Context, net *network.Network, out Outcome, opts Options) (map[string][]byte, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	frame := render.Capture(net, out.Status)
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(out.Key, opts.ArtifactKeyOpts(format))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		data, err := RenderFormat(ctx, net, frame, format, opts.RenderOptions())
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
		if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
			opts.Logger.Warn("cache artifact", "format", format, "err", err)
		}
	}
	return artifacts, nil
}

// RenderFormat renders one format. The json format is the full network
// document including positions.
func RenderFormat(ctx context.Context, net *network.Network, frame render.Frame, format string, opts render.Options) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatSVG:
		if err := render.WriteSVG(&buf, frame, opts); err != nil {
			return nil, err
		}
	case FormatPNG:
		return render.PNG(ctx, frame)
	case FormatDOT:
		buf.WriteString(render.ToDOT(frame))
	case FormatJSON:
		if err := net.Write(&buf); err != nil {
			return nil, err
		}
	default:
		return nil, ValidateFormat(format)
	}
	return buf.Bytes(), nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
