// Package sizing finds the smallest tank that meets a reliability target,
// using the water-balance simulator as its oracle.
package sizing

import (
	"fmt"
	"log/slog"

	"github.com/bill-mca/dry-spell/internal/rainfall"
	"github.com/bill-mca/dry-spell/internal/simulation"
)

// Domain is the capacity search space, in litres. Candidates lie on the
// grid MinTankL + k*StepL.
type Domain struct {
	MinTankL int
	MaxTankL int
	StepL    int

	// PracticalRoundL is the granularity the exact minimum is rounded up
	// to for the recommendation.
	PracticalRoundL int
}

// DefaultDomain covers commercially available tank sizes.
var DefaultDomain = Domain{
	MinTankL:        1000,
	MaxTankL:        100000,
	StepL:           500,
	PracticalRoundL: 1000,
}

// Params fixes the non-capacity simulation inputs across all probes.
type Params struct {
	AreaM2      float64
	DailyUsageL float64
	RunoffCoeff float64
}

// Result reports the minimum-capacity search outcome. Sizes are litres and
// AchievedConfidence is a percentage.
type Result struct {
	RecommendedL       int     `json:"recommended_size_l"`
	AchievedConfidence float64 `json:"achieved_confidence_percent"`
	ExactMinimumL      int     `json:"exact_minimum_l"`
	ReachedLimit       bool    `json:"reached_limit"`
}

// Searcher runs capacity searches over a fixed rainfall record.
type Searcher struct {
	domain Domain
	logger *slog.Logger
}

// NewSearcher creates a Searcher. A zero Domain selects DefaultDomain.
func NewSearcher(domain Domain, logger *slog.Logger) *Searcher {
	if domain == (Domain{}) {
		domain = DefaultDomain
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Searcher{domain: domain, logger: logger}
}

// FindMinimumTank returns the smallest practical tank size whose simulated
// reliability meets targetConfidence, a fraction in (0, 1]. When even the
// largest tank in the domain misses the target, the result carries that
// tank with ReachedLimit set and no search runs.
//
// The search is a binary search over the capacity grid and is only correct
// if reliability never decreases with capacity. That holds for this
// recurrence (a larger tank can only hold more water on any given day) but
// is assumed, not proven.
func (s *Searcher) FindMinimumTank(obs []rainfall.Observation, p Params, targetConfidence float64) (*Result, error) {
	if targetConfidence <= 0 || targetConfidence > 1 {
		return nil, fmt.Errorf("%w: confidence target must be in (0,1], got %v",
			simulation.ErrInvalidInput, targetConfidence)
	}

	d := s.domain
	atMax, err := s.simulateAt(obs, p, d.MaxTankL)
	if err != nil {
		return nil, err
	}
	if atMax.Summary.ReliabilityPct/100 < targetConfidence {
		s.logger.Warn("no tank in domain meets target",
			"max_tank_l", d.MaxTankL,
			"achieved_pct", atMax.Summary.ReliabilityPct,
			"target", targetConfidence,
		)
		return &Result{
			RecommendedL:       d.MaxTankL,
			AchievedConfidence: atMax.Summary.ReliabilityPct,
			ExactMinimumL:      d.MaxTankL,
			ReachedLimit:       true,
		}, nil
	}

	// Binary search on step indices rather than litre values, so midpoints
	// land exactly on the grid.
	lo, hi := 0, (d.MaxTankL-d.MinTankL)/d.StepL
	exact := d.MaxTankL
	for lo <= hi {
		mid := (lo + hi) / 2
		capacity := d.MinTankL + mid*d.StepL
		res, err := s.simulateAt(obs, p, capacity)
		if err != nil {
			return nil, err
		}
		if res.Summary.ReliabilityPct/100 >= targetConfidence {
			exact = capacity
			hi = mid - 1
		} else {
			lo = mid + 1
		}
	}

	// Round up to a practical size. Under the monotonicity assumption this
	// cannot lower the achieved reliability.
	practical := ((exact + d.PracticalRoundL - 1) / d.PracticalRoundL) * d.PracticalRoundL
	atPractical, err := s.simulateAt(obs, p, practical)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tank size search complete",
		"exact_minimum_l", exact,
		"recommended_l", practical,
		"achieved_pct", atPractical.Summary.ReliabilityPct,
	)

	return &Result{
		RecommendedL:       practical,
		AchievedConfidence: atPractical.Summary.ReliabilityPct,
		ExactMinimumL:      exact,
		ReachedLimit:       false,
	}, nil
}

func (s *Searcher) simulateAt(obs []rainfall.Observation, p Params, tankSizeL int) (*simulation.Result, error) {
	return simulation.Simulate(obs, simulation.Params{
		TankSizeL:   float64(tankSizeL),
		AreaM2:      p.AreaM2,
		DailyUsageL: p.DailyUsageL,
		RunoffCoeff: p.RunoffCoeff,
	})
}
