package network

import "fmt"

// Kind identifies how a network was built.
type Kind int

const (
	KindCustom Kind = iota
	KindLattice
	KindRandom
	KindHierarchy
	KindScaleFree
)

var kindNames = [...]string{
	KindCustom:    "custom",
	KindLattice:   "lattice",
	KindRandom:    "random",
	KindHierarchy: "hierarchy",
	KindScaleFree: "scale-free",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind parses a kind name such as "scale-free". The empty string is
// [KindCustom].
func ParseKind(name string) (Kind, error) {
	if name == "" {
		return KindCustom, nil
	}
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown network kind %q", name)
}

// Kinds returns the names of all generator kinds.
func Kinds() []string {
	return []string{
		KindLattice.String(),
		KindRandom.String(),
		KindHierarchy.String(),
		KindScaleFree.String(),
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if k < 0 || int(k) >= len(kindNames) {
		return nil, fmt.Errorf("invalid network kind %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}
