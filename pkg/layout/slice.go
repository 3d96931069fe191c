package layout

// sliceResult tells the scheduler what to do after a slice.
type sliceResult int

const (
	sliceContinue sliceResult = iota // more work; re-enter the host
	sliceDone                        // layout complete or attempt orphaned
	slicePaused                      // stop requested; wait for Resume
)

func (r sliceResult) String() string {
	switch r {
	case sliceContinue:
		return "continue"
	case sliceDone:
		return "done"
	case slicePaused:
		return "paused"
	}
	return "unknown"
}

// schedule queues the next slice unless one is already queued.
func (s *Session) schedule() {
	if s.queued {
		return
	}
	s.queued = true
	gen := s.gen
	s.sched.Schedule(func() { s.tick(gen) })
}

// tick is the task handed to the scheduler.
func (s *Session) tick(gen uint64) {
	if gen != s.gen {
		return
	}
	s.queued = false
	if s.runSlice() == sliceContinue {
		s.schedule()
	}
}

// runSlice relaxes nodes from the cursor until the edge budget is spent or
// the pass ends.
func (s *Session) runSlice() sliceResult {
	if s.status != LayoutInProgress {
		return sliceDone
	}
	if s.stop.Load() || s.ctx.Err() != nil {
		s.paused = true
		s.pausedAt = s.now()
		s.logger.Debug("layout paused", "network", s.name, "cursor", s.cursor)
		return slicePaused
	}

	n := s.adj.NodeCount()
	budget := s.opts.EdgeBudget
	work := 0
	for i := s.cursor; i < n; i++ {
		s.energy += s.relax.Relax(i)
		work += s.adj.OutDegree(i)
		if budget > 0 && work >= budget && i+1 < n {
			s.cursor = i + 1
			s.reportProgress()
			return sliceContinue
		}
	}

	s.cursor = 0
	if s.endPass() {
		return sliceDone
	}
	s.reportProgress()
	return sliceContinue
}
