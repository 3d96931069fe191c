package pipeline

import (
	"github.com/matzehuels/netlayout/pkg/errors"
	"github.com/matzehuels/netlayout/pkg/layout"
	"github.com/matzehuels/netlayout/pkg/network"
)

// Build returns opts.Network if set, otherwise generates or reads the
// network the source fields describe.
func Build(opts Options) (*network.Network, error) {
	if opts.Network != nil {
		return opts.Network, nil
	}
	opts.SetDefaults()

	var (
		net *network.Network
		err error
	)
	switch opts.Kind {
	case network.KindCustom:
		net, err = network.ReadFile(opts.Path)
	case network.KindLattice:
		net, err = network.Lattice(opts.Rows, opts.Cols)
	case network.KindRandom:
		net, err = network.Random(opts.Nodes, opts.Probability, opts.Seed)
	case network.KindHierarchy:
		net, err = network.Hierarchy(opts.Levels, opts.Branching)
	case network.KindScaleFree:
		net, err = network.ScaleFree(opts.Nodes, opts.Attach, opts.Seed)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown network kind %s", opts.Kind)
	}
	if err != nil {
		return nil, err
	}
	if opts.Name != "" {
		net.Name = opts.Name
	}
	return net, nil
}

// InitialStatus is the status a session for net starts in: static
// topologies never run, positioned ones are adjusted, the rest are laid
// out from scratch.
func InitialStatus(net *network.Network) layout.Status {
	switch {
	case net.Static():
		return layout.NoLayout
	case net.Positioned():
		return layout.AdjustLayout
	default:
		return layout.NeedsLayout
	}
}
