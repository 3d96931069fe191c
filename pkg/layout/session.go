package layout

import (
	"context"
	"io"
	"math"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netlayout/pkg/observability"
)

// Config wires a session to its collaborators.
type Config struct {
	// Name identifies the network in logs and observability hooks.
	Name string

	// Relaxer performs the per-node relaxation step. Required.
	Relaxer Relaxer

	// Scheduler re-enters the host loop between slices. Required.
	Scheduler Scheduler

	// Listener receives progress and completion. Nil means [NopListener].
	Listener Listener

	// Options tunes the session. Zero fields take defaults; the result must
	// pass [Options.Validate].
	Options Options

	// Initial is the starting status: [NeedsLayout] for fresh networks,
	// [NoLayout] for static topologies, [HasLayout] for restored ones.
	Initial Status

	// Clock returns the current time. Nil means time.Now.
	Clock func() time.Time

	// Logger receives debug output. Nil discards.
	Logger *log.Logger
}

// Session owns the run-time state of layout attempts for one network.
// A session is reused across attempts; each [Session.RequestLayout] starts a
// new attempt from a reset state.
type Session struct {
	name   string
	relax  Relaxer
	sched  Scheduler
	listen Listener
	opts   Options
	now    func() time.Time
	logger *log.Logger

	status Status
	ctx    context.Context
	adj    Adjacency

	// gen stamps queued slices so that a slice queued before an
	// invalidation or a new request does nothing when it runs.
	gen      uint64
	queued   bool
	paused   bool
	pausedAt time.Time
	stop     atomic.Bool

	cursor     int
	energy     float64
	lastEnergy float64
	prevEnergy float64
	bestSlack  float64
	norm       float64
	passes     int
	start      time.Time
	throttle   throttle
}

// NewSession creates a session in cfg.Initial status. It panics if the
// relaxer or scheduler is missing or if the options, after defaults, do not
// validate.
func NewSession(cfg Config) *Session {
	if cfg.Relaxer == nil {
		panic("layout: Config.Relaxer is required")
	}
	if cfg.Scheduler == nil {
		panic("layout: Config.Scheduler is required")
	}
	if cfg.Listener == nil {
		cfg.Listener = NopListener{}
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	cfg.Options.SetDefaults()
	if err := cfg.Options.Validate(); err != nil {
		panic("layout: " + err.Error())
	}

	s := &Session{
		name:   cfg.Name,
		relax:  cfg.Relaxer,
		sched:  cfg.Scheduler,
		listen: cfg.Listener,
		opts:   cfg.Options,
		now:    cfg.Clock,
		logger: cfg.Logger,
		status: cfg.Initial,
		ctx:    context.Background(),
	}
	s.throttle.interval = cfg.Options.MinProgressInterval
	s.clear()
	return s
}

// RequestLayout starts a layout attempt over adj if the status is
// [NeedsLayout] or [AdjustLayout], and reports whether it did. Requests in
// any other status, including a second request while one is in progress,
// are no-ops.
//
// The first slice is queued on the scheduler; RequestLayout itself does no
// relaxation work. A topology without nodes completes before RequestLayout
// returns. Cancelling ctx pauses the session at the next slice boundary.
func (s *Session) RequestLayout(ctx context.Context, adj Adjacency) bool {
	if !s.status.Requestable() {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	warm := s.status == AdjustLayout

	s.clear()
	s.ctx = ctx
	s.adj = adj
	s.start = s.now()
	s.throttle.reset(s.start)

	n := adj.NodeCount()
	s.norm = s.opts.Normalization
	if s.norm <= 0 {
		s.norm = 1
		if n > 0 {
			s.norm = 1 / float64(n)
		}
	}

	if p, ok := s.relax.(Preparer); ok {
		p.Prepare(warm)
	}
	s.status = LayoutInProgress

	observability.Layout().OnLayoutStart(ctx, s.name, n, warm)
	s.logger.Debug("layout requested", "network", s.name, "nodes", n, "warm", warm)

	if n == 0 {
		s.prevEnergy, s.bestSlack = 0, 0
		s.complete(false)
		return true
	}
	s.schedule()
	return true
}

// Stop asks a running session to pause at the next slice boundary.
// It is the only method that is safe to call from any goroutine.
func (s *Session) Stop() {
	s.stop.Store(true)
}

// Resume clears a pending stop and, if the session had paused, queues the
// next slice. It reports whether a slice was queued. Time spent paused does
// not count toward the timeout.
func (s *Session) Resume(ctx context.Context) bool {
	if s.status != LayoutInProgress {
		return false
	}
	s.stop.Store(false)
	if ctx != nil {
		s.ctx = ctx
	}
	if !s.paused {
		return false
	}

	d := s.now().Sub(s.pausedAt)
	s.start = s.start.Add(d)
	s.throttle.shift(d)
	s.paused = false

	s.logger.Debug("layout resumed", "network", s.name, "cursor", s.cursor, "paused", d)
	s.schedule()
	return true
}

// Invalidate discards the current layout after a topology change and
// returns the session to [NeedsLayout]. A slice already queued for the
// previous attempt becomes a no-op. It reports whether the status changed.
func (s *Session) Invalidate() bool {
	switch s.status {
	case HasLayout, AdjustLayout, LayoutInProgress:
		s.clear()
		s.status = NeedsLayout
		s.logger.Debug("layout invalidated", "network", s.name)
		return true
	}
	return false
}

// Shake marks a finished layout for a warm-start re-run. The caller
// perturbs positions; the next request keeps them. It reports whether the
// status changed.
func (s *Session) Shake() bool {
	if s.status != HasLayout {
		return false
	}
	s.status = AdjustLayout
	return true
}

// Reset discards all run-time state and sets the status, for example when
// the owning network is replaced.
func (s *Session) Reset(status Status) {
	s.clear()
	s.status = status
}

// clear resets per-attempt state and orphans any queued slice.
func (s *Session) clear() {
	s.gen++
	s.queued = false
	s.paused = false
	s.stop.Store(false)
	s.cursor = 0
	s.energy = 0
	s.lastEnergy = 0
	s.prevEnergy = math.Inf(1)
	s.bestSlack = math.Inf(1)
	s.passes = 0
}

// Name returns the network name the session reports under.
func (s *Session) Name() string { return s.name }

// Status returns the current status.
func (s *Session) Status() Status { return s.status }

// Cursor returns the index of the next node the current pass will relax.
func (s *Session) Cursor() int { return s.cursor }

// Passes returns the number of completed passes in the current attempt.
func (s *Session) Passes() int { return s.passes }

// Energy returns the running energy sum of the pass in progress.
func (s *Session) Energy() float64 { return s.energy }

// LastPassEnergy returns the raw energy sum of the last completed pass.
func (s *Session) LastPassEnergy() float64 { return s.lastEnergy }

// PreviousEnergy returns the normalized energy of the last completed pass,
// or +Inf before the first pass completes.
func (s *Session) PreviousEnergy() float64 { return s.prevEnergy }

// BestSlack returns the smallest energy delta observed between passes.
func (s *Session) BestSlack() float64 { return s.bestSlack }

// Paused reports whether the session stopped at a slice boundary and is
// waiting for [Session.Resume].
func (s *Session) Paused() bool { return s.paused }

// Progress returns the current closeness-to-convergence ratio in [0, 1].
// It is 1 once the layout is done.
func (s *Session) Progress() float64 {
	if s.status.Drawable() {
		return 1
	}
	return progressRatio(s.opts.Accuracy, s.bestSlack)
}

// Options returns the effective options.
func (s *Session) Options() Options { return s.opts }
