package layout

import (
	"time"
)

// degrees is an Adjacency given by its out-degree sequence.
type degrees []int

func (d degrees) NodeCount() int      { return len(d) }
func (d degrees) OutDegree(i int) int { return d[i] }

func uniform(n, deg int) degrees {
	d := make(degrees, n)
	for i := range d {
		d[i] = deg
	}
	return d
}

// queue is a manual host loop: tasks run only when the test steps it.
type queue struct {
	tasks []func()
	ran   int
}

func (q *queue) Schedule(task func()) { q.tasks = append(q.tasks, task) }

func (q *queue) step() bool {
	if len(q.tasks) == 0 {
		return false
	}
	task := q.tasks[0]
	q.tasks = q.tasks[1:]
	q.ran++
	task()
	return true
}

// drain runs tasks until the queue is empty or limit ticks have run.
func (q *queue) drain(limit int) int {
	n := 0
	for n < limit && q.step() {
		n++
	}
	return n
}

// fakeClock is a manually advanced clock.
type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// recorder is a Listener that records notifications.
type recorder struct {
	clock     *fakeClock
	ratios    []float64
	times     []time.Time
	completes int
}

func (r *recorder) OnProgress(ratio float64) {
	r.ratios = append(r.ratios, ratio)
	if r.clock != nil {
		r.times = append(r.times, r.clock.Now())
	}
}

func (r *recorder) OnComplete() { r.completes++ }

// constant returns a relaxer that always reports energy e.
func constant(e float64) RelaxFunc {
	return func(int) float64 { return e }
}
