package layout

import (
	"math"
	"time"

	"github.com/matzehuels/netlayout/pkg/errors"
)

// Default tuning values.
const (
	// DefaultEdgeBudget is the number of edge-equivalents processed per slice.
	DefaultEdgeBudget = 200

	// DefaultMinProgressInterval caps progress notifications at about 20Hz.
	DefaultMinProgressInterval = 50 * time.Millisecond

	// DefaultAccuracy is the energy-delta tolerance between passes.
	DefaultAccuracy = 1e-3

	// DefaultTimeout bounds the wall-clock duration of one session.
	DefaultTimeout = 10 * time.Second
)

// Options tunes a session.
type Options struct {
	// EdgeBudget is the work, in summed out-degrees, after which a slice
	// yields. Zero or negative means unbounded: one slice per pass.
	EdgeBudget int `json:"edge_budget"`

	// MinProgressInterval is the minimum time between two progress
	// notifications.
	MinProgressInterval time.Duration `json:"min_progress_interval"`

	// Accuracy is the convergence tolerance on the normalized energy
	// delta between consecutive passes.
	Accuracy float64 `json:"accuracy"`

	// Timeout is the emergency bound after which a session completes
	// regardless of convergence.
	Timeout time.Duration `json:"timeout"`

	// Normalization scales a pass's summed energy. Zero means 1/nodeCount,
	// which keeps Accuracy comparable across network sizes.
	Normalization float64 `json:"normalization,omitempty"`
}

// DefaultOptions returns the default tuning values.
func DefaultOptions() Options {
	return Options{
		EdgeBudget:          DefaultEdgeBudget,
		MinProgressInterval: DefaultMinProgressInterval,
		Accuracy:            DefaultAccuracy,
		Timeout:             DefaultTimeout,
	}
}

// SetDefaults fills zero fields with defaults. EdgeBudget is left alone
// when negative, since that explicitly requests unbounded slices.
func (o *Options) SetDefaults() {
	if o.EdgeBudget == 0 {
		o.EdgeBudget = DefaultEdgeBudget
	}
	if o.MinProgressInterval == 0 {
		o.MinProgressInterval = DefaultMinProgressInterval
	}
	if o.Accuracy == 0 {
		o.Accuracy = DefaultAccuracy
	}
	if o.Timeout == 0 {
		o.Timeout = DefaultTimeout
	}
}

// Validate checks that the options describe a session that terminates.
func (o Options) Validate() error {
	if !(o.Accuracy > 0) || math.IsInf(o.Accuracy, 1) {
		return errors.New(errors.ErrCodeInvalidConfig, "accuracy must be a positive finite number, got %g", o.Accuracy)
	}
	if o.Timeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout must be positive, got %s", o.Timeout)
	}
	if o.MinProgressInterval < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min progress interval cannot be negative, got %s", o.MinProgressInterval)
	}
	if o.Normalization < 0 || math.IsNaN(o.Normalization) || math.IsInf(o.Normalization, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "normalization must be a non-negative finite number, got %g", o.Normalization)
	}
	return nil
}
