package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/netlayout/pkg/cache"
	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
	"github.com/matzehuels/netlayout/pkg/render"
)

// quick returns options for a small hierarchy that converges in well under
// the timeout.
func quick(formats ...string) Options {
	return Options{
		Kind:      network.KindHierarchy,
		Levels:    3,
		Branching: 2,
		Formats:   formats,
		Layout:    layout.Options{Accuracy: 1e-2, Timeout: time.Minute},
	}
}

type collect struct{ frames []render.Frame }

func (c *collect) WriteFrame(f render.Frame) error {
	c.frames = append(c.frames, f)
	return nil
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"defaults", Options{Kind: network.KindRandom}, ""},
		{"custom without path", Options{}, errors.ErrCodeInvalidInput},
		{"custom with network", Options{Network: network.New("n", network.KindCustom, 1)}, ""},
		{"bad format", Options{Kind: network.KindRandom, Formats: []string{"gif"}}, errors.ErrCodeUnsupported},
		{"negative scale", Options{Kind: network.KindRandom, Scale: -1}, errors.ErrCodeInvalidInput},
		{"bad accuracy", Options{Kind: network.KindRandom, Layout: layout.Options{Accuracy: -1}}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			opts.SetDefaults()
			err := opts.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	tests := []struct {
		opts    Options
		nodes   int
		initial layout.Status
	}{
		{Options{Kind: network.KindLattice, Rows: 3, Cols: 4}, 12, layout.NoLayout},
		{Options{Kind: network.KindRandom, Nodes: 25}, 25, layout.NeedsLayout},
		{Options{Kind: network.KindHierarchy, Levels: 3, Branching: 2}, 7, layout.NeedsLayout},
		{Options{Kind: network.KindScaleFree, Nodes: 40}, 40, layout.NeedsLayout},
	}
	for _, tt := range tests {
		t.Run(tt.opts.Kind.String(), func(t *testing.T) {
			net, err := Build(tt.opts)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if net.NodeCount() != tt.nodes {
				t.Errorf("nodes = %d, want %d", net.NodeCount(), tt.nodes)
			}
			if got := InitialStatus(net); got != tt.initial {
				t.Errorf("InitialStatus = %v, want %v", got, tt.initial)
			}
		})
	}
}

func TestBuildNameAndFile(t *testing.T) {
	src, _ := network.Random(5, 0.5, 1)
	path := t.TempDir() + "/net.json"
	if err := src.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	net, err := Build(Options{Path: path, Name: "renamed"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if net.Name != "renamed" || net.LinkCount() != src.LinkCount() {
		t.Errorf("got %q with %d links", net.Name, net.LinkCount())
	}

	if _, err := Build(Options{Kind: network.KindLattice, Rows: -1, Cols: 2}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("invalid lattice: error = %v", err)
	}
}

func TestExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), quick(FormatSVG, FormatDOT, FormatJSON))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Status != layout.HasLayout {
		t.Errorf("Status = %v, want %v", res.Status, layout.HasLayout)
	}
	if res.Stats.Nodes != 7 || res.Stats.Edges != 6 {
		t.Errorf("Stats = %+v", res.Stats)
	}
	if res.Stats.Passes == 0 || res.Stats.CacheHit {
		t.Errorf("expected a fresh layout, got %+v", res.Stats)
	}
	if !res.Network.Positioned() {
		t.Error("network should be positioned")
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Error("svg artifact missing")
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph") {
		t.Error("dot artifact missing")
	}
	restored, err := network.Unmarshal(res.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if !restored.Positioned() {
		t.Error("json artifact should carry positions")
	}
}

func TestExecuteUsesCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()

	first, err := r.Execute(ctx, quick(FormatSVG))
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := r.Execute(ctx, quick(FormatSVG))
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.Stats.CacheHit || second.Stats.Passes != 0 {
		t.Errorf("second run should hit the cache, got %+v", second.Stats)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}
	for i, n := range second.Network.Nodes() {
		if n.Pos != first.Network.Node(i).Pos {
			t.Fatalf("node %d: restored %v, computed %v", i, n.Pos, first.Network.Node(i).Pos)
		}
	}

	opts := quick(FormatSVG)
	opts.Refresh = true
	third, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.Stats.CacheHit {
		t.Error("refresh should bypass the cache")
	}

	opts = quick(FormatSVG)
	opts.Force.LinkLength = 80
	other, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if other.Stats.CacheHit {
		t.Error("changed force parameters must not reuse the cached layout")
	}
}

func TestExecuteIsDeterministic(t *testing.T) {
	run := func() []byte {
		res, err := NewRunner(nil, nil, nil).Execute(context.Background(), quick(FormatJSON))
		if err != nil {
			t.Fatalf("Execute: %v", err)
		}
		return res.Artifacts[FormatJSON]
	}
	if !bytes.Equal(run(), run()) {
		t.Error("identical options produced different layouts")
	}
}

func TestLayoutStaticNetwork(t *testing.T) {
	net, _ := network.Lattice(2, 3)
	sink := &collect{}
	out, err := NewRunner(nil, nil, nil).Layout(context.Background(), net, Options{Frames: sink})
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if out.Status != layout.NoLayout || out.Passes != 0 {
		t.Errorf("out = %+v, want NoLayout without passes", out)
	}
	if len(sink.frames) != 1 || !sink.frames[0].Final() {
		t.Errorf("frames = %d, want one final frame", len(sink.frames))
	}
}

func TestLayoutWarmStart(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	ctx := context.Background()
	net, _ := network.Hierarchy(3, 2)
	opts := quick()

	if _, err := r.Layout(ctx, net, opts); err != nil {
		t.Fatalf("cold Layout: %v", err)
	}
	if got := InitialStatus(net); got != layout.AdjustLayout {
		t.Fatalf("InitialStatus after layout = %v, want %v", got, layout.AdjustLayout)
	}
	out, err := r.Layout(ctx, net, opts)
	if err != nil {
		t.Fatalf("warm Layout: %v", err)
	}
	if out.Status != layout.HasLayout {
		t.Errorf("Status = %v", out.Status)
	}
}

func TestLayoutKeepPositions(t *testing.T) {
	net, _ := network.Hierarchy(3, 2)
	for i := range net.Nodes() {
		net.Node(i).Pos.X = float64(i)
	}
	net.MarkPositioned()
	before := net.Positions()

	opts := quick()
	opts.KeepPositions = true
	out, err := NewRunner(nil, nil, nil).Layout(context.Background(), net, opts)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if out.Status != layout.HasLayout || out.Passes != 0 {
		t.Errorf("Status = %v, Passes = %d, want HasLayout without passes", out.Status, out.Passes)
	}
	after := net.Positions()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("position %d moved: %v -> %v", i, before[i], after[i])
		}
	}
}

func TestLayoutFrames(t *testing.T) {
	net, _ := network.Hierarchy(3, 2)
	sink := &collect{}
	opts := quick()
	opts.Frames = sink
	opts.Animation = layout.AnimationPolicy{Enabled: true, VertexCeiling: 100, EdgeCeiling: 100}
	opts.Layout.EdgeBudget = 2
	opts.Layout.Accuracy = 1e-9
	opts.Layout.Timeout = 200 * time.Millisecond
	opts.Layout.MinProgressInterval = time.Nanosecond

	out, err := NewRunner(nil, nil, nil).Layout(context.Background(), net, opts)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if out.Frames != len(sink.frames) || len(sink.frames) < 2 {
		t.Fatalf("frames = %d (reported %d), want intermediate frames", len(sink.frames), out.Frames)
	}
	if last := sink.frames[len(sink.frames)-1]; !last.Final() {
		t.Errorf("last frame status = %v, want final", last.Status)
	}
}

func TestLayoutProgressCallback(t *testing.T) {
	net, _ := network.Hierarchy(3, 2)
	var ratios []float64
	opts := quick()
	opts.Layout.EdgeBudget = 2
	opts.Layout.Accuracy = 1e-9
	opts.Layout.Timeout = 200 * time.Millisecond
	opts.Layout.MinProgressInterval = time.Nanosecond
	opts.Progress = func(r float64) { ratios = append(ratios, r) }

	if _, err := NewRunner(nil, nil, nil).Layout(context.Background(), net, opts); err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if len(ratios) == 0 {
		t.Fatal("no progress reported")
	}
	for i, r := range ratios {
		if r <= 0 || r > 1 || (i > 0 && r < ratios[i-1]) {
			t.Fatalf("progress %v is not increasing within (0, 1]", ratios)
		}
	}
}

func TestLayoutCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	net, _ := network.Hierarchy(3, 2)
	out, err := NewRunner(nil, nil, nil).Layout(ctx, net, quick())
	if err != context.Canceled {
		t.Fatalf("Layout error = %v, want %v", err, context.Canceled)
	}
	if out.Status != layout.LayoutInProgress {
		t.Errorf("Status = %v, want the session paused in progress", out.Status)
	}
}

func TestLayoutKeyDependsOnWarmPositions(t *testing.T) {
	net, _ := network.Random(6, 0.5, 2)
	opts := quick()
	opts.SetDefaults()
	cold := opts.LayoutKeyOpts(net, layout.NeedsLayout)

	net.Node(0).Pos.X = 5
	a := opts.LayoutKeyOpts(net, layout.AdjustLayout)
	net.Node(0).Pos.X = 6
	b := opts.LayoutKeyOpts(net, layout.AdjustLayout)

	if cold.Initial != "needs-layout" {
		t.Errorf("cold Initial = %q", cold.Initial)
	}
	if a.Initial == b.Initial {
		t.Error("warm keys should differ when input positions differ")
	}
}
