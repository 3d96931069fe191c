package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netlayout/pkg/pipeline"
	"github.com/matzehuels/netlayout/pkg/render"
)

// renderOpts holds the render command flags that are not pipeline options.
type renderOpts struct {
	output    string // output file (single format) or base path
	formats   string // comma-separated output formats
	framesDir string // directory for animation frames
	noCache   bool
}

// renderCommand creates the render command for drawing laid-out networks.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		src sourceFlags
		lf  layoutFlags
		ro  renderOpts
	)
	cmd := &cobra.Command{
		Use:   "render [network.json]",
		Short: "Lay out a network and render it",
		Long: `Lay out a network and render it to one or more formats.

Formats: svg (default), png, dot and json. With --frames, small networks
are also drawn after every progress notification, one SVG per frame,
so the layout can be replayed as an animation.

A positioned input is refined by a short layout run unless --keep is set.`,
		Example: `  netlayout render net.json -f svg,png
  netlayout render -k hierarchy --levels 5 --frames frames/
  netlayout render net.layout.json --keep -o net.svg`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args, &src, &lf)
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(ro.formats)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), opts, ro)
		},
	}

	addSourceFlags(cmd, &src)
	addLayoutFlags(cmd, &lf)
	fl := cmd.Flags()
	fl.StringVarP(&ro.output, "output", "o", "", "output file (single format) or base path")
	fl.StringVarP(&ro.formats, "format", "f", "", "output format(s): svg (default), png, dot, json (comma-separated)")
	fl.StringVar(&ro.framesDir, "frames", "", "write animation frames to this directory")
	fl.BoolVar(&ro.noCache, "no-cache", false, "disable caching")
	fl.BoolVar(&src.opts.KeepPositions, "keep", false, "draw a positioned input without laying it out")
	fl.BoolVar(&src.opts.Refresh, "refresh", false, "ignore cached layouts and artifacts")
	fl.BoolVar(&src.opts.Labels, "labels", false, "draw node labels")
	fl.Float64Var(&src.opts.Scale, "scale", 1, "drawing scale")

	return cmd
}

// runRender executes the pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, ro renderOpts) error {
	if ro.framesDir != "" {
		frames, err := render.NewFrameDir(ro.framesDir, opts.RenderOptions())
		if err != nil {
			return err
		}
		opts.Frames = frames
	}

	runner, err := c.newRunner(ctx, ro.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	prog := newOpTimer(c.Logger)
	spinner := newSpinner(ctx, "Rendering...")
	opts.Progress = spinner.Update
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	base := renderBase(ro.output, opts, result.Network.Name)
	paths := make([]string, 0, len(result.Artifacts))
	for _, format := range sortedFormats(result.Artifacts) {
		path := outputPath(ro.output, base, format, len(result.Artifacts))
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	prog.done(fmt.Sprintf("rendered %d artifacts", len(paths)))
	printSuccess("Rendered %s", result.Network.Name)
	for _, p := range paths {
		printFile(p)
	}
	if ro.framesDir != "" && result.Stats.Frames > 0 {
		printFile(filepath.Join(ro.framesDir, "frame-*.svg"))
	}
	printStats(layoutStats{
		Nodes:   result.Stats.Nodes,
		Links:   result.Stats.Edges,
		Passes:  result.Stats.Passes,
		Frames:  result.Stats.Frames,
		Elapsed: result.Stats.LayoutTime + result.Stats.RenderTime,
		Cached:  result.Stats.CacheHit,
	})
	return nil
}

// renderBase returns the path every artifact name is derived from.
func renderBase(output string, opts pipeline.Options, name string) string {
	switch {
	case output != "":
		return strings.TrimSuffix(output, filepath.Ext(output))
	case opts.Path != "":
		return strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path))
	default:
		return name
	}
}

// outputPath uses an explicit output file as is when only one format is
// written; otherwise each format gets base.<format>.
func outputPath(output, base, format string, count int) string {
	if output != "" && count == 1 {
		return output
	}
	return base + "." + format
}

func sortedFormats(artifacts map[string][]byte) []string {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
