package layout

import "testing"

func TestAnimationPolicy(t *testing.T) {
	tests := []struct {
		name     string
		policy   AnimationPolicy
		vertices int
		edges    int
		want     bool
	}{
		{"small network", DefaultAnimationPolicy(), 50, 120, true},
		{"at ceilings", DefaultAnimationPolicy(), 500, 2000, true},
		{"too many vertices", DefaultAnimationPolicy(), 501, 10, false},
		{"too many edges", DefaultAnimationPolicy(), 10, 2001, false},
		{"disabled", AnimationPolicy{VertexCeiling: 500, EdgeCeiling: 2000}, 1, 1, false},
		{"no ceilings", AnimationPolicy{Enabled: true}, 1 << 20, 1 << 24, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.ShouldAnimate(tt.vertices, tt.edges); got != tt.want {
				t.Errorf("ShouldAnimate(%d, %d) = %v, want %v", tt.vertices, tt.edges, got, tt.want)
			}
		})
	}
}
