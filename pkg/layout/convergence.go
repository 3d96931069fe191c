package layout

import (
	"math"

	"github.com/matzehuels/netlayout/pkg/observability"
)

// endPass folds the finished pass into the energy history and reports
// whether the session is done. A pass ends the session when its normalized
// energy differs from the previous pass by less than the accuracy, or when
// the timeout has elapsed.
func (s *Session) endPass() bool {
	total := s.energy * s.norm
	delta := math.Abs(total - s.prevEnergy)
	s.prevEnergy = total
	if delta < s.bestSlack {
		s.bestSlack = delta
	}
	s.lastEnergy = s.energy
	s.energy = 0
	s.passes++

	observability.Layout().OnPass(s.ctx, s.name, s.passes, delta)

	if delta < s.opts.Accuracy {
		s.complete(false)
		return true
	}
	if s.now().Sub(s.start) > s.opts.Timeout {
		s.complete(true)
		return true
	}
	return false
}

// complete moves the session to HasLayout and notifies the listener.
// timedOut is visible to hooks and logs only.
func (s *Session) complete(timedOut bool) {
	s.status = HasLayout
	s.queued = false
	s.paused = false

	if f, ok := s.relax.(Finalizer); ok {
		f.Finalize()
	}

	elapsed := s.now().Sub(s.start)
	observability.Layout().OnLayoutComplete(s.ctx, s.name, s.passes, elapsed, timedOut)
	s.logger.Debug("layout complete",
		"network", s.name,
		"passes", s.passes,
		"energy", s.prevEnergy,
		"elapsed", elapsed,
		"timed_out", timedOut)

	s.listen.OnComplete()
}
