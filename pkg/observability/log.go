package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogLayoutHooks reports layout events to a logger at debug level.
// The CLI installs it when --verbose is set.
type LogLayoutHooks struct {
	Logger *log.Logger
}

func (h LogLayoutHooks) OnLayoutStart(_ context.Context, network string, nodeCount int, warm bool) {
	h.Logger.Debug("layout started", "network", network, "nodes", nodeCount, "warm", warm)
}

func (h LogLayoutHooks) OnPass(_ context.Context, network string, pass int, delta float64) {
	h.Logger.Debug("relaxation pass", "network", network, "pass", pass, "delta", delta)
}

func (h LogLayoutHooks) OnLayoutComplete(_ context.Context, network string, passes int, d time.Duration, timedOut bool) {
	h.Logger.Debug("layout complete", "network", network, "passes", passes,
		"duration", d.Round(time.Millisecond), "timed_out", timedOut)
}

// LogHTTPHooks reports served requests to a logger.
type LogHTTPHooks struct {
	Logger *log.Logger
}

func (h LogHTTPHooks) OnRequest(context.Context, string, string) {}

func (h LogHTTPHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("request", "method", method, "route", route, "status", status, "duration", d.Round(time.Microsecond))
}
