package network

import (
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/netlayout/pkg/errors"
)

// LatticeSpacing is the distance between neighboring lattice nodes.
const LatticeSpacing = 40.0

// Lattice builds a rows×cols grid with links to the right and downward
// neighbors. Nodes are placed on the grid immediately and the network is
// [Network.Static].
func Lattice(rows, cols int) (*Network, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "lattice needs at least 1x1 nodes, got %dx%d", rows, cols)
	}
	if rows*cols > maxGenerated {
		return nil, errors.New(errors.ErrCodeInvalidInput, "lattice %dx%d exceeds %d nodes", rows, cols, maxGenerated)
	}
	g := New(fmt.Sprintf("lattice-%dx%d", rows, cols), KindLattice, rows*cols)
	at := func(r, c int) int { return r*cols + c }
	for r := range rows {
		for c := range cols {
			i := at(r, c)
			g.nodes[i].Pos = r3.Vec{X: float64(c) * LatticeSpacing, Y: float64(r) * LatticeSpacing}
			if c+1 < cols {
				g.mustLink(i, at(r, c+1))
			}
			if r+1 < rows {
				g.mustLink(i, at(r+1, c))
			}
		}
	}
	g.positioned = true
	g.ComputeSegments()
	return g, nil
}

// Random builds an n-node network where each pair i<j is linked i→j with
// probability p. The same seed always yields the same network.
func Random(n int, p float64, seed uint64) (*Network, error) {
	if n < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node count cannot be negative, got %d", n)
	}
	if n > maxGenerated {
		return nil, errors.New(errors.ErrCodeInvalidInput, "random network exceeds %d nodes", maxGenerated)
	}
	if p < 0 || p > 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "link probability must be in [0, 1], got %g", p)
	}
	g := New(fmt.Sprintf("random-%d", n), KindRandom, n)
	rng := newRand(seed)
	for i := range n {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				g.mustLink(i, j)
			}
		}
	}
	return g, nil
}

// Hierarchy builds a complete tree with the given number of levels, each
// inner node linking to branching children. Node 0 is the root.
func Hierarchy(levels, branching int) (*Network, error) {
	if levels < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "hierarchy needs at least one level, got %d", levels)
	}
	if branching < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "branching factor must be positive, got %d", branching)
	}
	n, width := 0, 1
	for range levels {
		n += width
		width *= branching
		if n > maxGenerated {
			return nil, errors.New(errors.ErrCodeInvalidInput, "hierarchy %d/%d exceeds %d nodes", levels, branching, maxGenerated)
		}
	}
	g := New(fmt.Sprintf("hierarchy-%d-%d", levels, branching), KindHierarchy, n)
	for child := 1; child < n; child++ {
		g.mustLink((child-1)/branching, child)
	}
	return g, nil
}

// ScaleFree grows an n-node network by preferential attachment: each new
// node attaches to m distinct existing nodes chosen with probability
// proportional to their degree. Links run from the existing node to the
// new one, so early nodes become hubs with large out-degree.
func ScaleFree(n, m int, seed uint64) (*Network, error) {
	if m < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "attachment count must be positive, got %d", m)
	}
	if n < m+1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale-free network needs more than %d nodes, got %d", m, n)
	}
	if n > maxGenerated {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale-free network exceeds %d nodes", maxGenerated)
	}
	g := New(fmt.Sprintf("scale-free-%d-%d", n, m), KindScaleFree, n)
	rng := newRand(seed)

	// Each endpoint appears once per incident link, so a uniform pick from
	// ends is a degree-proportional pick of a node.
	ends := make([]int, 0, 2*n*m)
	for i := 1; i <= m; i++ {
		g.mustLink(0, i)
		ends = append(ends, 0, i)
	}
	picked := make(map[int]bool, m)
	for i := m + 1; i < n; i++ {
		clear(picked)
		for len(picked) < m {
			picked[ends[rng.IntN(len(ends))]] = true
		}
		// Map order is random; link in index order for determinism.
		for _, t := range slices.Sorted(maps.Keys(picked)) {
			g.mustLink(t, i)
			ends = append(ends, t, i)
		}
	}
	return g, nil
}

// maxGenerated bounds generator output.
const maxGenerated = 1 << 20

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func (g *Network) mustLink(from, to int) {
	if err := g.AddLink(from, to); err != nil {
		panic(err)
	}
}
