package kernel

import (
	"fmt"

	"github.com/cwbudde/algo-nuft/core"
)

// Series is one irregularly sampled real time series. Times need not be sorted
// or evenly spaced. Weights is optional; nil means every sample has weight 1.
type Series struct {
	Values  []float64
	Times   []float64
	Weights []float64
}

// Len returns the number of samples.
func (s Series) Len() int { return len(s.Values) }

// Weighted reports whether per-sample weights are present.
func (s Series) Weighted() bool { return s.Weights != nil }

// Validate checks that values, times and weights have equal, non-zero length.
func (s Series) Validate() error {
	n := len(s.Values)
	if n == 0 {
		return fmt.Errorf("kernel: series has no samples: %w", core.ErrShapeMismatch)
	}
	if len(s.Times) != n {
		return fmt.Errorf("kernel: times length %d != values length %d: %w", len(s.Times), n, core.ErrShapeMismatch)
	}
	if s.Weights != nil && len(s.Weights) != n {
		return fmt.Errorf("kernel: weights length %d != values length %d: %w", len(s.Weights), n, core.ErrShapeMismatch)
	}
	return nil
}
