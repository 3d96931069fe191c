package force

import (
	"math"

	"github.com/matzehuels/netlayout/pkg/errors"
)

// Params tunes the force model.
type Params struct {
	// LinkLength is the rest length of a link spring.
	LinkLength float64 `json:"link_length" toml:"link_length" yaml:"link_length"`

	// Stiffness scales the spring force per unit of stretch.
	Stiffness float64 `json:"stiffness" toml:"stiffness" yaml:"stiffness"`

	// Repulsion scales the inverse-square push between all node pairs.
	Repulsion float64 `json:"repulsion" toml:"repulsion" yaml:"repulsion"`

	// Damping is the fraction of the net force applied as displacement.
	Damping float64 `json:"damping" toml:"damping" yaml:"damping"`

	// MaxStep caps a node's displacement per relaxation.
	MaxStep float64 `json:"max_step" toml:"max_step" yaml:"max_step"`

	// Seed drives initial placement and shaking.
	Seed uint64 `json:"seed" toml:"seed" yaml:"seed"`
}

// DefaultParams returns parameters suited to the generator defaults.
func DefaultParams() Params {
	return Params{
		LinkLength: 40,
		Stiffness:  0.1,
		Repulsion:  1600,
		Damping:    0.5,
		MaxStep:    10,
		Seed:       42,
	}
}

// SetDefaults fills zero fields with defaults. A zero Seed is kept.
func (p *Params) SetDefaults() {
	d := DefaultParams()
	if p.LinkLength == 0 {
		p.LinkLength = d.LinkLength
	}
	if p.Stiffness == 0 {
		p.Stiffness = d.Stiffness
	}
	if p.Repulsion == 0 {
		p.Repulsion = d.Repulsion
	}
	if p.Damping == 0 {
		p.Damping = d.Damping
	}
	if p.MaxStep == 0 {
		p.MaxStep = d.MaxStep
	}
}

// Validate checks that every parameter is a positive finite number and
// that Damping is at most 1.
func (p Params) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"link_length", p.LinkLength},
		{"stiffness", p.Stiffness},
		{"repulsion", p.Repulsion},
		{"damping", p.Damping},
		{"max_step", p.MaxStep},
	} {
		if !(f.value > 0) || math.IsInf(f.value, 1) {
			return errors.New(errors.ErrCodeInvalidConfig, "force %s must be a positive finite number, got %g", f.name, f.value)
		}
	}
	if p.Damping > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "force damping must be at most 1, got %g", p.Damping)
	}
	return nil
}
