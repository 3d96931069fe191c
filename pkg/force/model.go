package force

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/netlayout/pkg/network"
)

// minDist keeps coincident nodes from producing infinite forces.
const minDist = 1e-3

// Model is a per-node relaxation step over a network's arena.
// It implements layout.Relaxer, layout.Preparer and layout.Finalizer.
type Model struct {
	net    *network.Network
	params Params
	rng    *rand.Rand
}

// New creates a model over net. Zero parameters take defaults.
func New(net *network.Network, params Params) *Model {
	params.SetDefaults()
	return &Model{
		net:    net,
		params: params,
		rng:    rand.New(rand.NewPCG(params.Seed, params.Seed^0xdeadbeef)),
	}
}

// Params returns the effective parameters.
func (m *Model) Params() Params { return m.params }

// Relax moves node i along its damped net force, at most MaxStep, and
// returns the magnitude of that force, uncapped.
func (m *Model) Relax(i int) float64 {
	nodes := m.net.Nodes()
	p := nodes[i].Pos
	var f r3.Vec

	for j := range nodes {
		if j == i {
			continue
		}
		d, dist := m.offset(i, j, p, nodes[j].Pos)
		f = r3.Sub(f, r3.Scale(m.params.Repulsion/(dist*dist), d))
	}
	for _, j := range m.net.Neighbors(i) {
		d, dist := m.offset(i, j, p, nodes[j].Pos)
		f = r3.Add(f, r3.Scale(m.params.Stiffness*(dist-m.params.LinkLength), d))
	}

	step := r3.Scale(m.params.Damping, f)
	if m.net.Dim < 3 {
		step.Z = 0
	}
	n := r3.Norm(step)
	if n > m.params.MaxStep {
		step = r3.Scale(m.params.MaxStep/n, step)
	}
	nodes[i].Pos = r3.Add(p, step)
	return n
}

// offset returns the unit vector from p toward q and their distance.
// Coincident nodes get a fixed direction derived from their indices.
func (m *Model) offset(i, j int, p, q r3.Vec) (r3.Vec, float64) {
	d := r3.Sub(q, p)
	if m.net.Dim < 3 {
		d.Z = 0
	}
	dist := r3.Norm(d)
	if dist < minDist {
		a := float64(i*31+j*17) * 0.7
		u := r3.Vec{X: math.Cos(a), Y: math.Sin(a)}
		if i > j {
			u = r3.Scale(-1, u)
		}
		return u, minDist
	}
	return r3.Scale(1/dist, d), dist
}

// Prepare places nodes for a cold start on a circle with a little jitter.
// Warm starts keep the current positions.
func (m *Model) Prepare(warm bool) {
	if warm {
		return
	}
	m.rng = rand.New(rand.NewPCG(m.params.Seed, m.params.Seed^0xdeadbeef))
	nodes := m.net.Nodes()
	n := len(nodes)
	radius := m.params.LinkLength * math.Max(1, float64(n)/(2*math.Pi))
	for i := range nodes {
		a := 2 * math.Pi * float64(i) / float64(n)
		pos := r3.Vec{
			X: radius*math.Cos(a) + m.jitter(m.params.LinkLength/4),
			Y: radius*math.Sin(a) + m.jitter(m.params.LinkLength/4),
		}
		if m.net.Dim == 3 {
			pos.Z = m.jitter(radius)
		}
		nodes[i].Pos = pos
	}
}

// Finalize computes link segments from the final positions.
func (m *Model) Finalize() {
	m.net.ComputeSegments()
	m.net.MarkPositioned()
}

// Shake moves every node by up to amount along each axis.
func (m *Model) Shake(amount float64) {
	nodes := m.net.Nodes()
	for i := range nodes {
		nodes[i].Pos.X += m.jitter(amount)
		nodes[i].Pos.Y += m.jitter(amount)
		if m.net.Dim == 3 {
			nodes[i].Pos.Z += m.jitter(amount)
		}
	}
}

func (m *Model) jitter(amount float64) float64 {
	return (m.rng.Float64()*2 - 1) * amount
}
