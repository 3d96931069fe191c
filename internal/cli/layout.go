package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		src       sourceFlags
		lf        layoutFlags
		output    string
		positions bool
		noCache   bool
		refresh   bool
	)

	cmd := &cobra.Command{
		Use:   "layout [network.json]",
		Short: "Compute a force-directed layout",
		Long: `Compute a force-directed layout and write the positioned network.

The input is a network JSON file, or a generated network when no file is
given. A positioned input is refined from its current positions rather
than from scratch.

Layouts are cached by topology and settings; --refresh recomputes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, args, &src, &lf)
			if err != nil {
				return err
			}
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), opts, output, positions, noCache)
		},
	}

	addSourceFlags(cmd, &src)
	addLayoutFlags(cmd, &lf)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&positions, "positions", false, "write only the positions array")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached layouts")

	return cmd
}

// runLayout builds the network, lays it out and writes the result.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, positionsOnly, noCache bool) error {
	net, err := pipeline.Build(opts)
	if err != nil {
		return fmt.Errorf("load network: %w", err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Cache.Close()

	prog := newOpTimer(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Laying out %s...", net.Name))
	opts.Progress = spinner.Update
	spinner.Start()

	out, err := runner.Layout(ctx, net, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	outputPath := output
	if outputPath == "" {
		outputPath = layoutPath(opts, net)
	}
	if positionsOnly {
		err = writePositions(net, outputPath)
	} else {
		err = net.WriteFile(outputPath)
	}
	if err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	prog.done("layout written to " + outputPath)
	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(layoutStats{
		Nodes:   net.NodeCount(),
		Links:   net.LinkCount(),
		Passes:  out.Passes,
		Elapsed: prog.elapsed(),
		Cached:  out.CacheHit,
	})
	fmt.Println()
	printNextStep("Render", appName+" render --keep "+outputPath)
	return nil
}

// layoutPath derives the default output path: <input>.layout.json for files,
// <name>.layout.json for generated networks.
func layoutPath(opts pipeline.Options, net *network.Network) string {
	if opts.Path != "" {
		return strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path)) + ".layout.json"
	}
	return net.Name + ".layout.json"
}

func writePositions(net *network.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return net.WritePositions(f)
}
