package layout

import "fmt"

// Status describes the stage a network's layout is in.
type Status int

const (
	// NeedsLayout means positions must be computed from scratch.
	NeedsLayout Status = iota
	// AdjustLayout means positions exist but should be relaxed again
	// (warm start), for example after a perturbation.
	AdjustLayout
	// LayoutInProgress means a session owns the node positions.
	LayoutInProgress
	// HasLayout means the positions are final and safe to draw.
	HasLayout
	// NoLayout marks topologies with an intrinsic static placement, such
	// as lattices. The engine never runs for them.
	NoLayout
)

var statusNames = [...]string{
	NeedsLayout:      "needs-layout",
	AdjustLayout:     "adjust-layout",
	LayoutInProgress: "layout-in-progress",
	HasLayout:        "has-layout",
	NoLayout:         "no-layout",
}

// String returns the kebab-case name of s.
func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus parses a name produced by [Status.String].
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layout status %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(statusNames) {
		return nil, fmt.Errorf("invalid layout status %d", int(s))
	}
	return []byte(statusNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	v, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Requestable reports whether a layout request would start a session.
func (s Status) Requestable() bool {
	return s == NeedsLayout || s == AdjustLayout
}

// Drawable reports whether positions can be read and drawn directly.
func (s Status) Drawable() bool {
	return s == HasLayout || s == NoLayout
}
