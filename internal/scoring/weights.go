package scoring

import (
	"fmt"
	"math"
)

// Bounds the input surfaces enforce on each weight. The engine itself accepts
// any real value.
const (
	MinWeight  = 0.1
	MaxWeight  = 5.0
	WeightStep = 0.1
)

// WeightVector holds the multipliers applied to the three raw risk components.
type WeightVector struct {
	Mission     float64 `json:"mission" yaml:"mission"`
	Force       float64 `json:"force" yaml:"force"`
	Acquisition float64 `json:"acquisition" yaml:"acquisition"`
}

// DefaultWeights returns the neutral 1.0/1.0/1.0 weighting.
func DefaultWeights() WeightVector {
	return WeightVector{Mission: 1.0, Force: 1.0, Acquisition: 1.0}
}

// Validate checks each weight against the slider range [0.1, 5.0] and the
// 0.1 step. Compute does not call this; HTTP and CLI inputs do.
func (w WeightVector) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"mission", w.Mission},
		{"force", w.Force},
		{"acquisition", w.Acquisition},
	} {
		if math.IsNaN(f.v) || f.v < MinWeight-1e-9 || f.v > MaxWeight+1e-9 {
			return fmt.Errorf("%s weight %v out of range [%.1f, %.1f]", f.name, f.v, MinWeight, MaxWeight)
		}
		steps := f.v / WeightStep
		if math.Abs(steps-math.Round(steps)) > 1e-6 {
			return fmt.Errorf("%s weight %v is not a multiple of %.1f", f.name, f.v, WeightStep)
		}
	}
	return nil
}

func (w WeightVector) String() string {
	return fmt.Sprintf("mission=%.1f force=%.1f acquisition=%.1f", w.Mission, w.Force, w.Acquisition)
}
