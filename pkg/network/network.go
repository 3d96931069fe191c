package network

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/netlayout/pkg/errors"
)

// DefaultRadius is the node radius used by generators.
const DefaultRadius = 4.0

// Node is one vertex in the arena.
type Node struct {
	Index  int     // Position in the arena, fixed for the node's life
	Label  string  // Optional display label
	Pos    r3.Vec  // Current position; Z stays 0 in two dimensions
	Radius float64 // Drawn radius, also used to trim link segments
}

// Link is a directed connection between two node indices.
type Link struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Network is a topology plus the node state a layout writes into.
//
// A Network is not safe for concurrent use. While a layout session runs
// over it, positions belong to that session and the topology must not
// change.
type Network struct {
	Name string
	Kind Kind
	Dim  int

	nodes      []Node
	out        [][]int
	nbrs       [][]int
	links      int
	segments   []Segment
	positioned bool
}

// New creates a network of n unlinked nodes at the origin.
func New(name string, kind Kind, n int) *Network {
	g := &Network{
		Name:  name,
		Kind:  kind,
		Dim:   2,
		nodes: make([]Node, n),
		out:   make([][]int, n),
		nbrs:  make([][]int, n),
	}
	for i := range g.nodes {
		g.nodes[i] = Node{Index: i, Radius: DefaultRadius}
	}
	return g
}

// AddLink adds a directed link. Self-loops and duplicate links are
// rejected with an INVALID_TOPOLOGY error.
func (g *Network) AddLink(from, to int) error {
	n := len(g.nodes)
	if from < 0 || from >= n || to < 0 || to >= n {
		return errors.New(errors.ErrCodeInvalidTopology, "link %d->%d: node index out of range [0, %d)", from, to, n)
	}
	if from == to {
		return errors.New(errors.ErrCodeInvalidTopology, "link %d->%d: self-loop", from, to)
	}
	if slices.Contains(g.out[from], to) {
		return errors.New(errors.ErrCodeInvalidTopology, "link %d->%d: duplicate", from, to)
	}
	g.out[from] = append(g.out[from], to)
	if !slices.Contains(g.nbrs[from], to) {
		g.nbrs[from] = append(g.nbrs[from], to)
		g.nbrs[to] = append(g.nbrs[to], from)
	}
	g.links++
	g.segments = nil
	return nil
}

// NodeCount returns the number of nodes.
func (g *Network) NodeCount() int { return len(g.nodes) }

// OutDegree returns the number of links leaving node i.
func (g *Network) OutDegree(i int) int { return len(g.out[i]) }

// LinkCount returns the number of links.
func (g *Network) LinkCount() int { return g.links }

// Node returns a pointer into the arena. It stays valid for the life of
// the network.
func (g *Network) Node(i int) *Node { return &g.nodes[i] }

// Nodes returns the arena itself. Callers may update positions in place.
func (g *Network) Nodes() []Node { return g.nodes }

// Neighbors returns the nodes linked to i in either direction.
func (g *Network) Neighbors(i int) []int { return g.nbrs[i] }

// Out returns the targets of links leaving i.
func (g *Network) Out(i int) []int { return g.out[i] }

// Links returns all links, ordered by source index.
func (g *Network) Links() []Link {
	links := make([]Link, 0, g.links)
	for from, targets := range g.out {
		for _, to := range targets {
			links = append(links, Link{From: from, To: to})
		}
	}
	return links
}

// Static reports whether the network has an intrinsic placement and
// needs no force-directed layout.
func (g *Network) Static() bool { return g.Kind == KindLattice }

// Positioned reports whether positions were loaded or computed for every
// node.
func (g *Network) Positioned() bool { return g.positioned }

// MarkPositioned records that the current positions are meaningful.
func (g *Network) MarkPositioned() { g.positioned = true }

// Snapshot returns a copy of the node state, safe to hand to a renderer
// while the arena keeps changing.
func (g *Network) Snapshot() []Node {
	return slices.Clone(g.nodes)
}

// Hash returns a content hash of the topology: kind, dimension, node
// radii and links. Names, labels and positions are excluded.
func (g *Network) Hash() string {
	radii := make([]float64, len(g.nodes))
	for i, n := range g.nodes {
		radii[i] = n.Radius
	}
	data, _ := json.Marshal(struct {
		Kind  Kind      `json:"kind"`
		Dim   int       `json:"dim"`
		Radii []float64 `json:"radii"`
		Out   [][]int   `json:"out"`
	}{g.Kind, g.Dim, radii, g.out})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
