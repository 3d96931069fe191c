// Package network models the topologies the layout engine places.
//
// A [Network] stores its nodes in an indexed arena: node i lives at
// index i for its whole life, and links refer to nodes by index. Each node
// keeps a position ([r3.Vec]) and a radius. The network answers the two
// questions the layout engine asks, [Network.NodeCount] and
// [Network.OutDegree], so it can be passed to a session directly.
//
// # Topologies
//
// Generators build the common test topologies:
//
//   - [Lattice]: a rows×cols grid with an intrinsic static placement
//   - [Random]: independent links with a fixed probability
//   - [Hierarchy]: a complete tree with a fixed branching factor
//   - [ScaleFree]: preferential attachment, producing a few high-degree hubs
//
// Lattices report [Network.Static] and never need a force-directed layout.
//
// # Serialization
//
// Networks round-trip through a JSON node-link format:
//
//	{
//	  "name": "demo",
//	  "kind": "random",
//	  "dim": 2,
//	  "nodes": [{"index": 0, "radius": 4}, {"index": 1, "radius": 4}],
//	  "links": [{"from": 0, "to": 1}]
//	}
//
// Nodes may carry a "pos" array; when every node has one the network is
// [Network.Positioned] and can be relaxed from those positions. Positions
// alone are exported with [Network.WritePositions].
//
// [r3.Vec]: https://pkg.go.dev/gonum.org/v1/gonum/spatial/r3#Vec
package network
