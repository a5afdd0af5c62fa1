package analysis

import "math"

// Selector picks the best-value entry from a comparison whose entries are
// ascending by tank size. It exists as an interface so the elbow-detection
// method can be swapped without touching the analyzer.
type Selector interface {
	// Select returns an index into entries, or -1 when entries is empty.
	Select(entries []Entry) int
}

const (
	// DefaultEfficiencyFloor is the minimum percent-offset gain per extra
	// 1000 L for an upgrade to stay worthwhile.
	DefaultEfficiencyFloor = 2.0

	// DefaultDropRatio stops the walk when a pair's marginal efficiency
	// falls below this fraction of the preceding pair's.
	DefaultDropRatio = 0.5
)

// MarginalEfficiencySelector walks consecutive size pairs from smallest to
// largest and stops at the knee of the diminishing-returns curve: the first
// pair whose offset gained per 1000 L either drops under an absolute floor
// or collapses relative to the previous pair. The candidate before the
// stopping pair wins; if no pair stops the walk, the largest candidate
// does.
//
// The two constants are tuning knobs, not derived quantities, and the knee
// this finds is a heuristic over an assumed diminishing-returns curve, not
// a provable optimum.
type MarginalEfficiencySelector struct {
	EfficiencyFloor float64
	DropRatio       float64
}

// NewMarginalEfficiencySelector returns a selector with the default
// constants.
func NewMarginalEfficiencySelector() *MarginalEfficiencySelector {
	return &MarginalEfficiencySelector{
		EfficiencyFloor: DefaultEfficiencyFloor,
		DropRatio:       DefaultDropRatio,
	}
}

func (s *MarginalEfficiencySelector) Select(entries []Entry) int {
	if len(entries) == 0 {
		return -1
	}

	best := 0
	prevEff := math.NaN()
	for i := 1; i < len(entries); i++ {
		deltaKL := float64(entries[i].TankSizeL-entries[i-1].TankSizeL) / 1000
		eff := (entries[i].PercentOffset - entries[i-1].PercentOffset) / deltaKL

		if eff < s.EfficiencyFloor {
			return best
		}
		if !math.IsNaN(prevEff) && eff < s.DropRatio*prevEff {
			return best
		}
		best = i
		prevEff = eff
	}
	return best
}
