package pipeline

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netlayout/pkg/cache"
	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/force"
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/render"
)

// Generator defaults.
const (
	DefaultNodes       = 100
	DefaultRows        = 10
	DefaultCols        = 10
	DefaultLevels      = 4
	DefaultBranching   = 3
	DefaultProbability = 0.05
	DefaultAttach      = 2
	DefaultSeed        = uint64(42)
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// Options configures one pipeline run. It supports JSON for API requests.
type Options struct {
	// Source
	Kind        network.Kind `json:"kind"`
	Name        string       `json:"name,omitempty"`
	Path        string       `json:"path,omitempty"` // custom: JSON network file
	Nodes       int          `json:"nodes,omitempty"`
	Rows        int          `json:"rows,omitempty"`
	Cols        int          `json:"cols,omitempty"`
	Levels      int          `json:"levels,omitempty"`
	Branching   int          `json:"branching,omitempty"`
	Probability float64      `json:"probability,omitempty"`
	Attach      int          `json:"attach,omitempty"` // scale-free links per new node
	Seed        uint64       `json:"seed,omitempty"`

	// Layout
	Layout        layout.Options `json:"layout"`
	Force         force.Params   `json:"force"`
	KeepPositions bool           `json:"keep_positions,omitempty"` // draw a positioned network as is

	// Render
	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Labels  bool     `json:"labels,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Network   *network.Network       `json:"-"` // prebuilt network; overrides the source fields
	Frames    render.FrameSink       `json:"-"` // receives animation frames
	Animation layout.AnimationPolicy `json:"-"`
	Progress  func(ratio float64)    `json:"-"` // called on every progress notification
	Logger    *log.Logger            `json:"-"`
}

// SetDefaults fills zero fields with defaults.
func (o *Options) SetDefaults() {
	if o.Nodes == 0 {
		o.Nodes = DefaultNodes
	}
	if o.Rows == 0 {
		o.Rows = DefaultRows
	}
	if o.Cols == 0 {
		o.Cols = DefaultCols
	}
	if o.Levels == 0 {
		o.Levels = DefaultLevels
	}
	if o.Branching == 0 {
		o.Branching = DefaultBranching
	}
	if o.Probability == 0 {
		o.Probability = DefaultProbability
	}
	if o.Attach == 0 {
		o.Attach = DefaultAttach
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = 1
	}
	o.Layout.SetDefaults()
	o.Force.SetDefaults()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options. Call SetDefaults first.
func (o *Options) Validate() error {
	if o.Network == nil && o.Kind == network.KindCustom && o.Path == "" {
		return errors.New(errors.ErrCodeInvalidInput, "a custom network needs a path")
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale cannot be negative, got %g", o.Scale)
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	return o.Force.Validate()
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %q (must be one of: %s)", format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatNames() []string {
	return []string{FormatSVG, FormatPNG, FormatDOT, FormatJSON}
}

// LayoutKeyOpts returns the cache key inputs for positions computed from
// initial status.
func (o *Options) LayoutKeyOpts(net *network.Network, initial layout.Status) cache.LayoutKeyOpts {
	start := initial.String()
	if initial == layout.AdjustLayout {
		// Warm starts depend on the input positions.
		start += ":" + positionsHash(net)
	}
	return cache.LayoutKeyOpts{
		Accuracy:      o.Layout.Accuracy,
		Normalization: o.Layout.Normalization,
		Force:         o.Force,
		Initial:       start,
	}
}

// ArtifactKeyOpts returns the cache key inputs for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Scale: o.Scale, Labels: o.Labels}
}

// RenderOptions returns the SVG drawing options.
func (o *Options) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Scale = o.Scale
	opts.Labels = o.Labels
	return opts
}

func positionsHash(net *network.Network) string {
	var b strings.Builder
	for _, p := range net.Positions() {
		fmt.Fprintf(&b, "%d:%g,%g,%g;", p.Index, p.X, p.Y, p.Z)
	}
	return cache.Hash([]byte(b.String()))
}
