package layout

import (
	"context"
	"math"
	"testing"
	"time"
)

func newTestSession(r Relaxer, l Listener, q *queue, clock *fakeClock, opts Options) *Session {
	if clock == nil {
		clock = newFakeClock()
	}
	return NewSession(Config{
		Name:      "test",
		Relaxer:   r,
		Listener:  l,
		Scheduler: q,
		Options:   opts,
		Clock:     clock.Now,
	})
}

func TestExampleScenario(t *testing.T) {
	q := &queue{}
	rec := &recorder{}
	s := newTestSession(constant(1.0), rec, q, nil, Options{
		EdgeBudget:    2,
		Accuracy:      1e-3,
		Timeout:       time.Hour,
		Normalization: 0.25,
	})

	if !s.RequestLayout(context.Background(), uniform(4, 1)) {
		t.Fatal("RequestLayout should start a session")
	}
	if s.Status() != LayoutInProgress {
		t.Fatalf("Status = %v, want %v", s.Status(), LayoutInProgress)
	}
	if len(q.tasks) != 1 {
		t.Fatalf("RequestLayout should queue exactly one slice, got %d", len(q.tasks))
	}

	// Slice A: nodes 0-1.
	q.step()
	if s.Cursor() != 2 || s.Energy() != 2 {
		t.Fatalf("after slice A: cursor=%d energy=%g, want 2 and 2", s.Cursor(), s.Energy())
	}

	// Slice B: nodes 2-3, pass 1 ends without converging.
	q.step()
	if s.Passes() != 1 {
		t.Fatalf("Passes = %d, want 1", s.Passes())
	}
	if s.LastPassEnergy() != 4 {
		t.Errorf("LastPassEnergy = %g, want 4", s.LastPassEnergy())
	}
	if s.PreviousEnergy() != 1 {
		t.Errorf("PreviousEnergy = %g, want 1", s.PreviousEnergy())
	}
	if s.Cursor() != 0 {
		t.Errorf("Cursor = %d, want 0 at pass boundary", s.Cursor())
	}
	if s.Status() != LayoutInProgress || rec.completes != 0 {
		t.Fatal("first pass must not converge")
	}

	// Pass 2 yields delta 0.
	ticks := q.drain(100)
	if ticks != 2 {
		t.Errorf("pass 2 took %d slices, want 2", ticks)
	}
	if s.Status() != HasLayout {
		t.Fatalf("Status = %v, want %v", s.Status(), HasLayout)
	}
	if s.Passes() != 2 {
		t.Errorf("Passes = %d, want 2", s.Passes())
	}
	if s.BestSlack() != 0 {
		t.Errorf("BestSlack = %g, want 0", s.BestSlack())
	}
	if rec.completes != 1 {
		t.Errorf("OnComplete fired %d times, want 1", rec.completes)
	}
}

func TestRequestWhileInProgressIsNoop(t *testing.T) {
	q := &queue{}
	rec := &recorder{}
	calls := 0
	relax := RelaxFunc(func(int) float64 { calls++; return 1 })
	s := newTestSession(relax, rec, q, nil, Options{EdgeBudget: -1, Accuracy: 1e-3, Timeout: time.Hour})

	adj := uniform(5, 2)
	if !s.RequestLayout(context.Background(), adj) {
		t.Fatal("first request should start")
	}
	if s.RequestLayout(context.Background(), adj) {
		t.Error("second request should be a no-op")
	}
	if len(q.tasks) != 1 {
		t.Fatalf("queued slices = %d, want 1", len(q.tasks))
	}

	q.drain(100)
	if s.LastPassEnergy() != 5 {
		t.Errorf("LastPassEnergy = %g, want 5 (no doubled accumulation)", s.LastPassEnergy())
	}
	if calls != 10 {
		t.Errorf("relax calls = %d, want 10 (two passes of five nodes)", calls)
	}
	if rec.completes != 1 {
		t.Errorf("OnComplete fired %d times, want 1", rec.completes)
	}
	if s.RequestLayout(context.Background(), adj) {
		t.Error("request on HasLayout should be a no-op")
	}
}

func TestSlicingDoesNotChangePassEnergy(t *testing.T) {
	adj := degrees{3, 0, 7, 1, 1, 12, 2, 0, 5, 4, 9, 1}

	// Energy depends on node and pass, with magnitudes that make float
	// addition order matter.
	run := func(budget int) []float64 {
		q := &queue{}
		visits := make([]int, len(adj))
		relax := RelaxFunc(func(i int) float64 {
			visits[i]++
			return 1/float64(i+1) + 1e-9*float64(visits[i]*i) + 1e6/float64(visits[i])
		})
		var energies []float64
		s := newTestSession(relax, nil, q, nil, Options{EdgeBudget: budget, Accuracy: 1e-12, Timeout: time.Hour})
		s.RequestLayout(context.Background(), adj)
		for q.step() {
			if len(energies) < s.Passes() {
				energies = append(energies, s.LastPassEnergy())
			}
			if s.Passes() >= 5 {
				s.Stop()
			}
		}
		return energies
	}

	want := run(-1)
	if len(want) != 5 {
		t.Fatalf("unbounded run produced %d passes, want 5", len(want))
	}
	for _, budget := range []int{1, 2, 3, 7, 13, 45} {
		got := run(budget)
		if len(got) != len(want) {
			t.Fatalf("budget %d: %d passes, want %d", budget, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("budget %d pass %d: energy %v, want %v", budget, i, got[i], want[i])
			}
		}
	}
}

func TestSliceBoundariesFollowOutDegree(t *testing.T) {
	q := &queue{}
	s := newTestSession(constant(1), nil, q, nil, Options{EdgeBudget: 10, Accuracy: 1e-3, Timeout: time.Hour})

	// A hub with degree 10 fills a slice on its own.
	s.RequestLayout(context.Background(), degrees{10, 1, 1, 1, 10, 1})
	var cursors []int
	for i := 0; i < 3; i++ {
		q.step()
		cursors = append(cursors, s.Cursor())
	}

	want := []int{1, 5, 0}
	for i := range want {
		if cursors[i] != want[i] {
			t.Fatalf("cursors = %v, want %v", cursors, want)
		}
	}
}

func TestZeroNodesCompleteImmediately(t *testing.T) {
	q := &queue{}
	rec := &recorder{}
	s := newTestSession(constant(1), rec, q, nil, Options{})

	if !s.RequestLayout(context.Background(), degrees{}) {
		t.Fatal("RequestLayout should accept an empty topology")
	}
	if s.Status() != HasLayout {
		t.Errorf("Status = %v, want %v", s.Status(), HasLayout)
	}
	if rec.completes != 1 {
		t.Errorf("OnComplete fired %d times, want 1", rec.completes)
	}
	if len(q.tasks) != 0 {
		t.Errorf("no slice should be queued, got %d", len(q.tasks))
	}
	if s.LastPassEnergy() != 0 || s.PreviousEnergy() != 0 {
		t.Errorf("energies = %g/%g, want 0", s.LastPassEnergy(), s.PreviousEnergy())
	}
}

func TestTimeoutCompletesAsSuccess(t *testing.T) {
	q := &queue{}
	rec := &recorder{}
	clock := newFakeClock()

	// Energy alternates between passes and never settles.
	visits := 0
	relax := RelaxFunc(func(int) float64 {
		visits++
		clock.Advance(time.Millisecond)
		if (visits/10)%2 == 0 {
			return 1
		}
		return 3
	})
	s := newTestSession(relax, rec, q, clock, Options{EdgeBudget: -1, Accuracy: 1e-6, Timeout: 50 * time.Millisecond})

	start := clock.Now()
	s.RequestLayout(context.Background(), uniform(10, 1))
	q.drain(1000)

	if s.Status() != HasLayout {
		t.Fatalf("Status = %v, want %v", s.Status(), HasLayout)
	}
	if rec.completes != 1 {
		t.Errorf("OnComplete fired %d times, want 1", rec.completes)
	}
	// One slice is one pass here, so the overrun is bounded by 10ms.
	if elapsed := clock.Now().Sub(start); elapsed > 60*time.Millisecond {
		t.Errorf("elapsed %s exceeds timeout plus one slice", elapsed)
	}
	if s.Progress() != 1 {
		t.Errorf("Progress = %g, want 1 after completion", s.Progress())
	}
}

func TestProgressThrottleAndMonotonicity(t *testing.T) {
	q := &queue{}
	clock := newFakeClock()
	rec := &recorder{clock: clock}

	// Energy decays each pass so deltas shrink; it oscillates slightly to
	// make sure bestSlack, not the last delta, drives the ratio.
	visits := make([]int, 20)
	relax := RelaxFunc(func(i int) float64 {
		visits[i]++
		clock.Advance(3 * time.Millisecond)
		p := float64(visits[i])
		return 100/(p*p) + 0.001*float64(visits[i]%2)
	})
	opts := Options{
		EdgeBudget:          4,
		MinProgressInterval: 50 * time.Millisecond,
		Accuracy:            1e-3,
		Timeout:             time.Hour,
	}
	s := newTestSession(relax, rec, q, clock, opts)
	s.RequestLayout(context.Background(), uniform(20, 1))
	q.drain(100000)

	if s.Status() != HasLayout {
		t.Fatalf("Status = %v, want %v", s.Status(), HasLayout)
	}
	if len(rec.ratios) < 2 {
		t.Fatalf("expected several progress notifications, got %d", len(rec.ratios))
	}
	for i := 1; i < len(rec.times); i++ {
		if gap := rec.times[i].Sub(rec.times[i-1]); gap < opts.MinProgressInterval {
			t.Errorf("notifications %d and %d only %s apart", i-1, i, gap)
		}
	}
	for i := 1; i < len(rec.ratios); i++ {
		if rec.ratios[i] < rec.ratios[i-1] {
			t.Errorf("ratio decreased: %g -> %g", rec.ratios[i-1], rec.ratios[i])
		}
	}
	for _, r := range rec.ratios {
		if r <= 0 || r > 1 {
			t.Errorf("ratio %g outside (0, 1]", r)
		}
	}
}

func TestStopPausesAtSliceBoundary(t *testing.T) {
	q := &queue{}
	rec := &recorder{}
	s := newTestSession(constant(1), rec, q, nil, Options{EdgeBudget: 1, Accuracy: 1e-3, Timeout: time.Hour})

	s.RequestLayout(context.Background(), uniform(4, 1))
	q.step()
	s.Stop()
	q.step()

	if !s.Paused() {
		t.Fatal("session should be paused")
	}
	if s.Status() != LayoutInProgress {
		t.Errorf("Status = %v, want %v while paused", s.Status(), LayoutInProgress)
	}
	if len(q.tasks) != 0 {
		t.Errorf("paused session should not reschedule, got %d tasks", len(q.tasks))
	}
	if s.Cursor() != 1 {
		t.Errorf("Cursor = %d, want 1", s.Cursor())
	}
	if s.Resume(nil) != true {
		t.Fatal("Resume should queue the next slice")
	}
	if s.Resume(nil) {
		t.Error("second Resume should not queue again")
	}
	q.drain(100)
	if s.Status() != HasLayout || rec.completes != 1 {
		t.Errorf("resumed session should complete once: status=%v completes=%d", s.Status(), rec.completes)
	}
}

func TestCancelledContextPauses(t *testing.T) {
	q := &queue{}
	s := newTestSession(constant(1), nil, q, nil, Options{EdgeBudget: 1, Accuracy: 1e-3, Timeout: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	s.RequestLayout(ctx, uniform(3, 1))
	cancel()
	q.drain(10)

	if !s.Paused() || s.Status() != LayoutInProgress {
		t.Fatalf("paused=%v status=%v, want paused in progress", s.Paused(), s.Status())
	}
	if !s.Resume(context.Background()) {
		t.Fatal("Resume with a live context should continue")
	}
	q.drain(100)
	if s.Status() != HasLayout {
		t.Errorf("Status = %v, want %v", s.Status(), HasLayout)
	}
}

func TestPausedTimeDoesNotCountTowardTimeout(t *testing.T) {
	q := &queue{}
	clock := newFakeClock()
	s := newTestSession(constant(1), nil, q, clock, Options{EdgeBudget: 1, Accuracy: 1e-3, Timeout: time.Second})

	s.RequestLayout(context.Background(), uniform(2, 1))
	s.Stop()
	q.step()
	clock.Advance(time.Hour)
	s.Resume(nil)

	// Pass 1 cannot converge; if the hour counted it would time out here.
	q.step()
	q.step()
	if s.Passes() != 1 || s.Status() != LayoutInProgress {
		t.Fatalf("passes=%d status=%v, want 1 pass still in progress", s.Passes(), s.Status())
	}
}

func TestInvalidateOrphansQueuedSlice(t *testing.T) {
	q := &queue{}
	calls := 0
	relax := RelaxFunc(func(int) float64 { calls++; return 1 })
	s := newTestSession(relax, nil, q, nil, Options{EdgeBudget: 1, Accuracy: 1e-3, Timeout: time.Hour})

	s.RequestLayout(context.Background(), uniform(3, 1))
	if !s.Invalidate() {
		t.Fatal("Invalidate should change an in-progress session")
	}
	if s.Status() != NeedsLayout {
		t.Fatalf("Status = %v, want %v", s.Status(), NeedsLayout)
	}

	// The stale slice runs but does nothing.
	q.step()
	if calls != 0 {
		t.Errorf("orphaned slice relaxed %d nodes", calls)
	}

	// A new request runs exactly one chain of slices.
	s.RequestLayout(context.Background(), uniform(3, 1))
	q.drain(100)
	if calls != 6 {
		t.Errorf("relax calls = %d, want 6", calls)
	}
	if s.Status() != HasLayout {
		t.Errorf("Status = %v, want %v", s.Status(), HasLayout)
	}
}

type lifecycleRelaxer struct {
	warm      []bool
	finalized int
	order     []string
}

func (r *lifecycleRelaxer) Relax(int) float64 { return 1 }
func (r *lifecycleRelaxer) Prepare(warm bool) { r.warm = append(r.warm, warm) }
func (r *lifecycleRelaxer) Finalize() {
	r.finalized++
	r.order = append(r.order, "finalize")
}

func TestStatusTransitions(t *testing.T) {
	q := &queue{}
	r := &lifecycleRelaxer{}
	l := ListenerFuncs{Complete: func() { r.order = append(r.order, "complete") }}
	s := NewSession(Config{Relaxer: r, Listener: l, Scheduler: q})
	adj := uniform(3, 1)

	if s.Shake() {
		t.Error("Shake should not apply to NeedsLayout")
	}
	s.RequestLayout(context.Background(), adj)
	q.drain(100)
	if s.Status() != HasLayout {
		t.Fatalf("Status = %v, want %v", s.Status(), HasLayout)
	}
	if got := r.order; len(got) != 2 || got[0] != "finalize" || got[1] != "complete" {
		t.Errorf("finalize/complete order = %v", got)
	}

	if !s.Shake() || s.Status() != AdjustLayout {
		t.Fatalf("Shake: status = %v, want %v", s.Status(), AdjustLayout)
	}
	s.RequestLayout(context.Background(), adj)
	q.drain(100)
	if len(r.warm) != 2 || r.warm[0] || !r.warm[1] {
		t.Errorf("Prepare warm flags = %v, want [false true]", r.warm)
	}

	if !s.Invalidate() || s.Status() != NeedsLayout {
		t.Errorf("Invalidate: status = %v, want %v", s.Status(), NeedsLayout)
	}
	if s.Invalidate() {
		t.Error("Invalidate on NeedsLayout should be a no-op")
	}
}

func TestNoLayoutIsTerminal(t *testing.T) {
	q := &queue{}
	s := NewSession(Config{Relaxer: constant(1), Scheduler: q, Initial: NoLayout})

	if s.RequestLayout(context.Background(), uniform(4, 4)) {
		t.Error("RequestLayout should not run on NoLayout")
	}
	if s.Invalidate() || s.Shake() {
		t.Error("NoLayout should not transition")
	}
	if s.Status() != NoLayout || len(q.tasks) != 0 {
		t.Errorf("status=%v tasks=%d", s.Status(), len(q.tasks))
	}
	if s.Progress() != 1 {
		t.Errorf("Progress = %g, want 1 for drawable status", s.Progress())
	}
}

// chain pulls each node halfway toward its predecessor and reports the
// distance moved, so positions converge to a common value.
type chain struct{ x []float64 }

func (c *chain) Relax(i int) float64 {
	if i == 0 {
		return 0
	}
	d := (c.x[i-1] - c.x[i]) / 2
	c.x[i] += d
	return math.Abs(d)
}

func TestDeterministicRuns(t *testing.T) {
	run := func() ([]float64, int) {
		q := &queue{}
		c := &chain{x: []float64{0, 10, -3, 7, 2, 9, 1}}
		s := newTestSession(c, nil, q, nil, Options{EdgeBudget: 3, Accuracy: 1e-9, Timeout: time.Hour})
		s.RequestLayout(context.Background(), uniform(len(c.x), 2))
		q.drain(100000)
		if s.Status() != HasLayout {
			t.Fatalf("Status = %v, want %v", s.Status(), HasLayout)
		}
		return c.x, s.Passes()
	}

	x1, p1 := run()
	x2, p2 := run()
	if p1 != p2 {
		t.Errorf("passes differ: %d vs %d", p1, p2)
	}
	for i := range x1 {
		if math.Float64bits(x1[i]) != math.Float64bits(x2[i]) {
			t.Errorf("position %d differs: %v vs %v", i, x1[i], x2[i])
		}
	}
}

func TestDefaultNormalizationIsNodeCount(t *testing.T) {
	q := &queue{}
	s := newTestSession(constant(2), nil, q, nil, Options{EdgeBudget: -1, Accuracy: 1e-3, Timeout: time.Hour})

	s.RequestLayout(context.Background(), uniform(8, 1))
	q.step()
	if s.PreviousEnergy() != 2 {
		t.Errorf("PreviousEnergy = %g, want 2 (16 / 8 nodes)", s.PreviousEnergy())
	}
}

func TestNewSessionRejectsBadConfig(t *testing.T) {
	for name, cfg := range map[string]Config{
		"relaxer":   {Scheduler: &queue{}},
		"scheduler": {Relaxer: constant(1)},
		"options": {
			Relaxer:   constant(1),
			Scheduler: &queue{},
			Options:   Options{Accuracy: -1, Timeout: -time.Second},
		},
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("NewSession should panic")
				}
			}()
			NewSession(cfg)
		})
	}
}

func TestNoProgressBeforeFirstDelta(t *testing.T) {
	q := &queue{}
	clock := newFakeClock()
	rec := &recorder{clock: clock}
	visits := make([]int, 4)
	relax := RelaxFunc(func(i int) float64 {
		visits[i]++
		clock.Advance(time.Second)
		return 10 / float64(visits[i])
	})
	s := newTestSession(relax, rec, q, clock, Options{EdgeBudget: 1, Accuracy: 1e-3, Timeout: time.Hour})
	s.RequestLayout(context.Background(), uniform(4, 1))

	for range 4 {
		q.step()
	}
	if s.Passes() != 1 || len(rec.ratios) != 0 {
		t.Fatalf("after pass 1: passes=%d ratios=%v, want 1 pass and no progress", s.Passes(), rec.ratios)
	}

	for range 4 {
		q.step()
	}
	if s.Passes() != 2 || len(rec.ratios) != 1 {
		t.Fatalf("after pass 2: passes=%d ratios=%v, want 2 passes and one notification", s.Passes(), rec.ratios)
	}
	// Pass energies 10 then 5: accuracy/delta = 1e-3/5.
	if got := rec.ratios[0]; math.Abs(got-2e-4) > 1e-12 {
		t.Errorf("ratio = %g, want 2e-4", got)
	}
}

func TestNaNPassEnergyDoesNotPoisonSlack(t *testing.T) {
	q := &queue{}
	clock := newFakeClock()
	rec := &recorder{clock: clock}
	visits := make([]int, 4)
	relax := RelaxFunc(func(i int) float64 {
		visits[i]++
		clock.Advance(time.Second)
		if i == 0 && visits[i] == 2 {
			return math.NaN()
		}
		return 10 / float64(visits[i])
	})
	s := newTestSession(relax, rec, q, clock, Options{EdgeBudget: -1, Accuracy: 1e-3, Timeout: time.Hour})
	s.RequestLayout(context.Background(), uniform(4, 1))

	for range 5 {
		q.step()
	}
	if s.Passes() != 5 || s.Status() != LayoutInProgress {
		t.Fatalf("passes=%d status=%v, want 5 passes in progress", s.Passes(), s.Status())
	}
	// Pass 4 and 5 energies are 2.5 and 2.
	if got := s.BestSlack(); math.IsNaN(got) || math.Abs(got-0.5) > 1e-12 {
		t.Errorf("BestSlack = %g, want 0.5", got)
	}
	if last := rec.ratios[len(rec.ratios)-1]; !(last > 0) {
		t.Errorf("last ratio = %g, want positive", last)
	}
}
