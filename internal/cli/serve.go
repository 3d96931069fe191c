package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/netlayout/pkg/host"
	"github.com/matzehuels/netlayout/pkg/observability"
	"github.com/matzehuels/netlayout/pkg/server"
)

// serveCommand creates the serve command, which hosts layout sessions
// behind the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

Every hosted network has its own layout session. All sessions share one
host loop, so slices of different networks interleave and no request
blocks on a running layout. Interrupting the server pauses the running
sessions and shuts down gracefully.`,
		Example: `  netlayout serve --addr :8080
  curl -X POST localhost:8080/networks -d '{"kind":"scale-free","nodes":300,"start":true}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	cfg := c.Config.Server
	observability.SetHTTPHooks(observability.LogHTTPHooks{Logger: c.Logger})

	g, ctx := errgroup.WithContext(ctx)
	loop := host.New()
	srv := server.New(ctx, loop, server.Options{
		MaxNodes:  cfg.MaxNodes,
		Layout:    c.Config.LayoutOptions(),
		Force:     c.Config.Force,
		Animation: c.Config.Policy(),
	}, c.Logger)

	httpSrv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv,
		ReadTimeout:  time.Duration(cfg.ReadTimeout),
		WriteTimeout: time.Duration(cfg.WriteTimeout),
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		return loop.Run(ctx)
	})
	g.Go(func() error {
		c.Logger.Info("listening", "addr", cfg.Addr)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeout))
		defer cancel()
		c.Logger.Info("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
