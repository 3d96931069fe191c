package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/netlayout/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached layout and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.CacheOptions()
			ch, err := cache.Open(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer ch.Close()

			clearer, ok := ch.(cache.Clearer)
			if !ok {
				return fmt.Errorf("the %s cache cannot be cleared", opts.Backend)
			}
			if err := clearer.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			printSuccess("Cleared the %s cache", opts.Backend)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(cacheLocation(c.Config.CacheOptions()))
			return nil
		},
	}
}

// cacheLocation describes where the configured backend stores entries.
func cacheLocation(opts cache.Options) string {
	switch opts.Backend {
	case cache.BackendFile:
		if opts.Dir != "" {
			return opts.Dir
		}
		dir, err := cache.DefaultDir()
		if err != nil {
			return "(no cache directory: " + err.Error() + ")"
		}
		return dir
	case cache.BackendRedis, cache.BackendMongo:
		return opts.URL
	default:
		return "(caching disabled)"
	}
}
