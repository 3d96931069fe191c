package layout

// Adjacency is the read-only topology a session lays out.
// It must not change while a session is in progress; a topology change
// requires [Session.Invalidate] and a new request.
type Adjacency interface {
	NodeCount() int
	OutDegree(i int) int
}

// Relaxer performs one relaxation step for node i: it updates the node's
// position in place and returns the node's energy contribution, which must
// be non-negative.
type Relaxer interface {
	Relax(i int) float64
}

// RelaxFunc adapts a function to [Relaxer].
type RelaxFunc func(i int) float64

// Relax calls f(i).
func (f RelaxFunc) Relax(i int) float64 { return f(i) }

// Preparer is implemented by relaxers that place nodes before a session
// starts. warm is true for [AdjustLayout] requests, where existing
// positions should be kept.
type Preparer interface {
	Prepare(warm bool)
}

// Finalizer is implemented by relaxers that derive geometry, such as link
// segments, from the final positions. Finalize runs once, right before
// [Listener.OnComplete].
type Finalizer interface {
	Finalize()
}

// Listener receives layout notifications. Both methods run on the host
// loop; positions may be read during the call.
//
// OnProgress receives a ratio in (0, 1]. It is not called before the
// session has an energy delta between two passes.
type Listener interface {
	OnProgress(ratio float64)
	OnComplete()
}

// ListenerFuncs adapts a pair of functions to [Listener]. Nil fields are
// skipped.
type ListenerFuncs struct {
	Progress func(ratio float64)
	Complete func()
}

// OnProgress calls l.Progress if set.
func (l ListenerFuncs) OnProgress(ratio float64) {
	if l.Progress != nil {
		l.Progress(ratio)
	}
}

// OnComplete calls l.Complete if set.
func (l ListenerFuncs) OnComplete() {
	if l.Complete != nil {
		l.Complete()
	}
}

// NopListener ignores all notifications.
type NopListener struct{}

func (NopListener) OnProgress(float64) {}
func (NopListener) OnComplete()        {}

// Scheduler is the host's cooperative yield primitive. Schedule queues task
// to run on a later tick of the host's single-threaded loop.
type Scheduler interface {
	Schedule(task func())
}

// SchedulerFunc adapts a function to [Scheduler].
type SchedulerFunc func(task func())

// Schedule calls f(task).
func (f SchedulerFunc) Schedule(task func()) { f(task) }
