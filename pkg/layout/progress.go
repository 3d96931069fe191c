package layout

import (
	"math"
	"time"
)

// throttle rate-limits progress notifications.
type throttle struct {
	interval time.Duration
	last     time.Time
}

func (t *throttle) reset(now time.Time) { t.last = now }

func (t *throttle) shift(d time.Duration) { t.last = t.last.Add(d) }

// allow reports whether a notification may fire at now and records it.
func (t *throttle) allow(now time.Time) bool {
	if now.Sub(t.last) < t.interval {
		return false
	}
	t.last = now
	return true
}

// reportProgress emits a progress notification unless throttled. Nothing is
// reported until two passes have produced a finite energy delta.
func (s *Session) reportProgress() {
	if math.IsInf(s.bestSlack, 1) || !s.throttle.allow(s.now()) {
		return
	}
	s.listen.OnProgress(progressRatio(s.opts.Accuracy, s.bestSlack))
}

// progressRatio is accuracy/slack clamped to [0, 1]. Before the first
// delta exists the slack is +Inf and the ratio is 0.
func progressRatio(accuracy, slack float64) float64 {
	switch {
	case math.IsNaN(slack) || math.IsInf(slack, 1):
		return 0
	case slack <= 0:
		return 1
	}
	return math.Min(1, accuracy/slack)
}
