package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/pipeline"
	"github.com/matzehuels/netlayout/pkg/render"
)

// drive feeds commands back into the model the way the bubbletea runtime
// would, until no command is left or the model quits.
func drive(t *testing.T, m *watchModel, cmd tea.Cmd) (quit bool) {
	t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 100000 {
			t.Fatal("model did not settle")
		}
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
		_, cmd = m.Update(msg)
	}
	return false
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func watchOptions() pipeline.Options {
	opts := pipeline.Options{}
	opts.Layout.Accuracy = 1e-2
	opts.Layout.Timeout = time.Minute
	opts.Layout.EdgeBudget = 4
	return opts
}

func TestWatchRunsToCompletion(t *testing.T) {
	net, _ := network.Hierarchy(3, 2)
	m := newWatchModel(context.Background(), net, watchOptions(), false)

	if !drive(t, m, m.Init()) {
		t.Fatal("model did not quit after completing")
	}
	if got := m.sess.Status(); got != layout.HasLayout {
		t.Fatalf("Status = %v, want %v", got, layout.HasLayout)
	}
	if m.layouts != 1 || m.ratio != 1 {
		t.Errorf("layouts = %d, ratio = %v; want 1, 1", m.layouts, m.ratio)
	}
	if s := m.stats(); s.Nodes != 7 || s.Passes == 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestWatchStaticNetworkQuitsImmediately(t *testing.T) {
	net, _ := network.Lattice(2, 2)
	m := newWatchModel(context.Background(), net, watchOptions(), false)

	if !drive(t, m, m.Init()) {
		t.Fatal("model did not quit")
	}
	if got := m.sess.Status(); got != layout.NoLayout {
		t.Errorf("Status = %v, want %v", got, layout.NoLayout)
	}
}

func TestWatchPauseResume(t *testing.T) {
	net, _ := network.Hierarchy(4, 3)
	opts := watchOptions()
	opts.Layout.Accuracy = 1e-9
	m := newWatchModel(context.Background(), net, opts, true)

	first := m.Init()
	_, cmd := m.Update(key("p"))
	if cmd != nil {
		t.Fatal("a second slice was queued while the first is in flight")
	}
	if drive(t, m, first) {
		t.Fatal("model quit while paused")
	}
	if !m.sess.Paused() || m.sess.Status() != layout.LayoutInProgress {
		t.Fatalf("Paused = %v, Status = %v; want paused in progress", m.sess.Paused(), m.sess.Status())
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("view does not show the paused state")
	}

	_, cmd = m.Update(key("p"))
	if cmd == nil {
		t.Fatal("resume queued no slice")
	}
	_, cmd = m.Update(cmd())
	if m.sess.Passes() == 0 && m.sess.Cursor() == 0 {
		t.Error("no work done after resume")
	}
	m.sess.Stop()
	drive(t, m, cmd)
	if !m.sess.Paused() {
		t.Error("session did not pause again")
	}
}

func TestWatchShakeAndRestart(t *testing.T) {
	net, _ := network.Hierarchy(3, 2)
	m := newWatchModel(context.Background(), net, watchOptions(), true)

	if drive(t, m, m.Init()) {
		t.Fatal("model quit despite hold")
	}
	if m.sess.Status() != layout.HasLayout {
		t.Fatalf("Status = %v after first layout", m.sess.Status())
	}

	_, cmd := m.Update(key("s"))
	if m.sess.Status() != layout.LayoutInProgress {
		t.Fatalf("Status = %v after shake, want in progress", m.sess.Status())
	}
	drive(t, m, cmd)

	_, cmd = m.Update(key("r"))
	drive(t, m, cmd)

	if m.layouts != 3 {
		t.Errorf("layouts = %d, want 3", m.layouts)
	}
	if m.sess.Status() != layout.HasLayout {
		t.Errorf("Status = %v, want %v", m.sess.Status(), layout.HasLayout)
	}
}

func TestWatchQuitStopsSession(t *testing.T) {
	net, _ := network.Hierarchy(3, 2)
	m := newWatchModel(context.Background(), net, watchOptions(), true)
	m.Init()

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit did not return tea.Quit")
	}
}

func TestWatchWritesFrames(t *testing.T) {
	net, _ := network.Hierarchy(3, 2)
	var frames []render.Frame
	opts := watchOptions()
	opts.Frames = render.FrameFunc(func(f render.Frame) error {
		frames = append(frames, f)
		return nil
	})
	opts.Animation = layout.AnimationPolicy{Enabled: true, VertexCeiling: 100, EdgeCeiling: 100}
	opts.Layout.MinProgressInterval = time.Nanosecond
	m := newWatchModel(context.Background(), net, opts, false)

	drive(t, m, m.Init())
	if err := m.err(); err != nil {
		t.Fatalf("err() = %v", err)
	}
	if len(frames) == 0 || !frames[len(frames)-1].Final() {
		t.Fatalf("got %d frames, want a final frame last", len(frames))
	}
	if m.stats().Frames != len(frames) {
		t.Errorf("stats frames = %d, want %d", m.stats().Frames, len(frames))
	}
}

func TestTeaSchedulerIsFIFO(t *testing.T) {
	var q teaScheduler
	var got []int
	q.Schedule(func() { got = append(got, 1) })
	q.Schedule(func() { got = append(got, 2) })

	for cmd := q.next(); cmd != nil; cmd = q.next() {
		cmd().(sliceMsg)()
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("order = %v, want [1 2]", got)
	}
}
