package network

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Segment is the drawn part of a link, trimmed to the node boundaries.
type Segment struct {
	Link
	A, B r3.Vec
}

// ComputeSegments derives link segments from the current positions.
// Overlapping nodes produce a zero-length segment at the midpoint.
func (g *Network) ComputeSegments() {
	segs := make([]Segment, 0, g.links)
	for from, targets := range g.out {
		for _, to := range targets {
			segs = append(segs, g.segment(from, to))
		}
	}
	g.segments = segs
}

func (g *Network) segment(from, to int) Segment {
	a, b := g.nodes[from], g.nodes[to]
	d := r3.Sub(b.Pos, a.Pos)
	dist := r3.Norm(d)
	s := Segment{Link: Link{From: from, To: to}}
	if dist <= a.Radius+b.Radius {
		mid := r3.Scale(0.5, r3.Add(a.Pos, b.Pos))
		s.A, s.B = mid, mid
		return s
	}
	u := r3.Scale(1/dist, d)
	s.A = r3.Add(a.Pos, r3.Scale(a.Radius, u))
	s.B = r3.Sub(b.Pos, r3.Scale(b.Radius, u))
	return s
}

// Segments returns the segments from the last [Network.ComputeSegments],
// or nil if the topology changed since.
func (g *Network) Segments() []Segment { return g.segments }

// Bounds returns the box enclosing all nodes including their radii.
// An empty network has zero bounds.
func (g *Network) Bounds() (min, max r3.Vec) {
	if len(g.nodes) == 0 {
		return r3.Vec{}, r3.Vec{}
	}
	min = r3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max = r3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, n := range g.nodes {
		r := n.Radius
		min.X = math.Min(min.X, n.Pos.X-r)
		min.Y = math.Min(min.Y, n.Pos.Y-r)
		min.Z = math.Min(min.Z, n.Pos.Z-r)
		max.X = math.Max(max.X, n.Pos.X+r)
		max.Y = math.Max(max.Y, n.Pos.Y+r)
		max.Z = math.Max(max.Z, n.Pos.Z+r)
	}
	return min, max
}
