package render

import (
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
)

// Frame is a point-in-time copy of a network's geometry.
type Frame struct {
	Name     string
	Seq      int           // Zero-based frame number within an animation
	Status   layout.Status // Status when the frame was captured
	Progress float64       // Last reported progress ratio
	Nodes    []network.Node
	Segments []network.Segment
}

// Final reports whether the frame shows a finished layout.
func (f Frame) Final() bool { return f.Status.Drawable() }

// Capture copies the current geometry of net. Link segments come from
// [network.Network.Segments] when available; otherwise links are drawn
// center to center.
func Capture(net *network.Network, status layout.Status) Frame {
	f := Frame{
		Name:   net.Name,
		Status: status,
		Nodes:  net.Snapshot(),
	}
	if segs := net.Segments(); segs != nil {
		f.Segments = append([]network.Segment(nil), segs...)
		return f
	}
	links := net.Links()
	f.Segments = make([]network.Segment, len(links))
	for i, l := range links {
		f.Segments[i] = network.Segment{Link: l, A: f.Nodes[l.From].Pos, B: f.Nodes[l.To].Pos}
	}
	return f
}
