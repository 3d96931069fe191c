package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netlayout/pkg/pipeline"
)

// generateCommand creates the generate command for writing synthetic networks.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		src    sourceFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic network",
		Long: `Generate a synthetic network and write it as JSON.

Generators: lattice (static grid, drawn without layout), random
(Erdős–Rényi), hierarchy (balanced tree) and scale-free
(preferential attachment). Random generators are seeded, so the same
flags always produce the same network.`,
		Example: `  netlayout generate -k scale-free -n 500 -o net.json
  netlayout generate -k lattice --rows 20 --cols 30 -o grid.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, nil, &src, nil)
			if err != nil {
				return err
			}
			net, err := pipeline.Build(opts)
			if err != nil {
				return err
			}

			path := output
			if path == "" {
				path = net.Name + ".json"
			}
			if err := net.WriteFile(path); err != nil {
				return fmt.Errorf("write network %s: %w", path, err)
			}

			printSuccess("Generated %s", net.Name)
			printFile(path)
			printStats(layoutStats{Nodes: net.NodeCount(), Links: net.LinkCount()})
			fmt.Println()
			printNextStep("Lay out", appName+" layout "+path)
			return nil
		},
	}

	addSourceFlags(cmd, &src)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json)")

	return cmd
}
