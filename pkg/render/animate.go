package render

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
)

// FrameSink receives frames from an [Animator].
type FrameSink interface {
	WriteFrame(f Frame) error
}

// FrameFunc adapts a function to [FrameSink].
type FrameFunc func(f Frame) error

// WriteFrame calls fn(f).
func (fn FrameFunc) WriteFrame(f Frame) error { return fn(f) }

// StatusSource reports the layout status of the network being animated.
// *layout.Session implements it.
type StatusSource interface {
	Status() layout.Status
}

// Animator is a layout.Listener that turns layout notifications into
// frames. Whether intermediate frames are drawn is decided once, from the
// network size and the policy; the final frame is always drawn.
type Animator struct {
	net     *network.Network
	sink    FrameSink
	src     StatusSource
	animate bool
	logger  *log.Logger

	seq      int
	progress float64
	err      error
}

// NewAnimator creates an animator for net. Call [Animator.Attach] with the
// session before requesting a layout.
func NewAnimator(net *network.Network, policy layout.AnimationPolicy, sink FrameSink, logger *log.Logger) *Animator {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Animator{
		net:     net,
		sink:    sink,
		animate: policy.ShouldAnimate(net.NodeCount(), net.LinkCount()),
		logger:  logger,
	}
}

// Attach sets the status source, normally the session this animator
// listens to.
func (a *Animator) Attach(src StatusSource) { a.src = src }

// Animating reports whether intermediate frames will be drawn.
func (a *Animator) Animating() bool { return a.animate }

// Frames returns the number of frames written.
func (a *Animator) Frames() int { return a.seq }

// Err returns the first sink error. Later frames are skipped once a
// write fails.
func (a *Animator) Err() error { return a.err }

// OnProgress draws an intermediate frame if animating.
func (a *Animator) OnProgress(ratio float64) {
	a.progress = ratio
	a.Draw()
}

// OnComplete draws the final frame.
func (a *Animator) OnComplete() {
	a.progress = 1
	a.Draw()
}

// Draw emits a frame appropriate for the current status and reports
// whether it did.
func (a *Animator) Draw() bool {
	status := layout.NeedsLayout
	if a.src != nil {
		status = a.src.Status()
	}

	switch status {
	case layout.HasLayout, layout.NoLayout:
		return a.emit(status)
	case layout.LayoutInProgress:
		if !a.animate {
			return false
		}
		return a.emit(status)
	default:
		// Nothing placed yet.
		return false
	}
}

func (a *Animator) emit(status layout.Status) bool {
	if a.err != nil {
		return false
	}
	f := Capture(a.net, status)
	f.Seq = a.seq
	f.Progress = a.progress
	if err := a.sink.WriteFrame(f); err != nil {
		a.err = err
		a.logger.Error("frame write failed", "network", a.net.Name, "frame", a.seq, "err", err)
		return false
	}
	a.seq++
	return true
}
