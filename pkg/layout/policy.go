package layout

// Default animation ceilings.
const (
	DefaultAnimateVertexCeiling = 500
	DefaultAnimateEdgeCeiling   = 2000
)

// AnimationPolicy decides whether a consumer redraws intermediate layouts
// on every progress notification or only the final one. The engine does not
// consult it.
type AnimationPolicy struct {
	// Enabled is the user toggle.
	Enabled bool `json:"enabled"`

	// VertexCeiling and EdgeCeiling disable animation for larger networks.
	// Zero means no ceiling.
	VertexCeiling int `json:"vertex_ceiling"`
	EdgeCeiling   int `json:"edge_ceiling"`
}

// DefaultAnimationPolicy returns an enabled policy with default ceilings.
func DefaultAnimationPolicy() AnimationPolicy {
	return AnimationPolicy{
		Enabled:       true,
		VertexCeiling: DefaultAnimateVertexCeiling,
		EdgeCeiling:   DefaultAnimateEdgeCeiling,
	}
}

// ShouldAnimate reports whether intermediate frames should be drawn for a
// network of the given size.
func (p AnimationPolicy) ShouldAnimate(vertices, edges int) bool {
	if !p.Enabled {
		return false
	}
	if p.VertexCeiling > 0 && vertices > p.VertexCeiling {
		return false
	}
	if p.EdgeCeiling > 0 && edges > p.EdgeCeiling {
		return false
	}
	return true
}
