package network

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/netlayout/pkg/errors"
)

type document struct {
	Name  string    `json:"name,omitempty"`
	Kind  Kind      `json:"kind"`
	Dim   int       `json:"dim,omitempty"`
	Nodes []docNode `json:"nodes"`
	Links []Link    `json:"links"`
}

type docNode struct {
	Index  int         `json:"index"`
	Label  string      `json:"label,omitempty"`
	Radius float64     `json:"radius,omitempty"`
	Pos    *[3]float64 `json:"pos,omitempty"`
}

// Unmarshal decodes a network from its JSON node-link form. Node indices
// must be exactly 0..n-1 in any order. Missing radii default to
// [DefaultRadius]; a missing dim defaults to 2.
func Unmarshal(data []byte) (*Network, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode network")
	}
	return fromDocument(doc)
}

// Read decodes a network from r. Read does not close r.
func Read(r io.Reader) (*Network, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode network")
	}
	return fromDocument(doc)
}

// ReadFile reads a network from a JSON file.
func ReadFile(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func fromDocument(doc document) (*Network, error) {
	switch doc.Dim {
	case 0:
		doc.Dim = 2
	case 2, 3:
	default:
		return nil, errors.New(errors.ErrCodeInvalidTopology, "dim must be 2 or 3, got %d", doc.Dim)
	}

	g := New(doc.Name, doc.Kind, len(doc.Nodes))
	g.Dim = doc.Dim
	seen := make([]bool, len(doc.Nodes))
	positioned := len(doc.Nodes) > 0
	for _, dn := range doc.Nodes {
		if dn.Index < 0 || dn.Index >= len(doc.Nodes) || seen[dn.Index] {
			return nil, errors.New(errors.ErrCodeInvalidTopology, "node index %d is out of range or repeated", dn.Index)
		}
		if dn.Radius < 0 {
			return nil, errors.New(errors.ErrCodeInvalidTopology, "node %d: negative radius", dn.Index)
		}
		seen[dn.Index] = true
		n := &g.nodes[dn.Index]
		n.Label = dn.Label
		if dn.Radius > 0 {
			n.Radius = dn.Radius
		}
		if dn.Pos != nil {
			n.Pos = r3.Vec{X: dn.Pos[0], Y: dn.Pos[1], Z: dn.Pos[2]}
		} else {
			positioned = false
		}
	}
	for _, l := range doc.Links {
		if err := g.AddLink(l.From, l.To); err != nil {
			return nil, err
		}
	}
	g.positioned = positioned
	if g.Static() {
		g.ComputeSegments()
	}
	return g, nil
}

func (g *Network) document() document {
	doc := document{
		Name:  g.Name,
		Kind:  g.Kind,
		Dim:   g.Dim,
		Nodes: make([]docNode, len(g.nodes)),
		Links: g.Links(),
	}
	for i, n := range g.nodes {
		dn := docNode{Index: i, Label: n.Label, Radius: n.Radius}
		if g.positioned {
			dn.Pos = &[3]float64{n.Pos.X, n.Pos.Y, n.Pos.Z}
		}
		doc.Nodes[i] = dn
	}
	return doc
}

// MarshalJSON implements json.Marshaler using the node-link form.
func (g *Network) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.document())
}

// Write encodes the network as indented JSON. Positions are included once
// the network is [Network.Positioned].
func (g *Network) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.document()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes the network to a JSON file at path.
func (g *Network) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return g.Write(f)
}

// Position is the exported location of one node.
type Position struct {
	Index int     `json:"index"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z,omitempty"`
}

// Positions returns the current location of every node.
func (g *Network) Positions() []Position {
	ps := make([]Position, len(g.nodes))
	for i, n := range g.nodes {
		ps[i] = Position{Index: i, X: n.Pos.X, Y: n.Pos.Y, Z: n.Pos.Z}
	}
	return ps
}

// WritePositions encodes the node positions as a JSON array.
func (g *Network) WritePositions(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Positions()); err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}
	return nil
}

// ApplyPositions copies positions into the arena. It must cover every
// node exactly once; on error the network is unchanged.
func (g *Network) ApplyPositions(ps []Position) error {
	if len(ps) != len(g.nodes) {
		return errors.New(errors.ErrCodeInvalidInput, "got %d positions for %d nodes", len(ps), len(g.nodes))
	}
	seen := make([]bool, len(g.nodes))
	for _, p := range ps {
		if p.Index < 0 || p.Index >= len(g.nodes) || seen[p.Index] {
			return errors.New(errors.ErrCodeInvalidInput, "position index %d is out of range or repeated", p.Index)
		}
		seen[p.Index] = true
	}
	for _, p := range ps {
		g.nodes[p.Index].Pos = r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
	}
	g.positioned = true
	g.ComputeSegments()
	return nil
}
