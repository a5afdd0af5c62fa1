// Package analysis compares fixed tank sizes over one rainfall record and
// derives the economic and offset metrics used to pick a best-value size.
package analysis

import (
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/bill-mca/dry-spell/internal/rainfall"
	"github.com/bill-mca/dry-spell/internal/simulation"
)

// DefaultTankSizesL is the comparison list used when the caller supplies
// none.
var DefaultTankSizesL = []int{2000, 5000, 10000, 15000, 20000, 25000}

// DefaultWaterRatePerKL is the mains water price assumed when none is
// configured, in dollars per kilolitre.
const DefaultWaterRatePerKL = 3.50

const daysPerYear = 365.25

// Params fixes the shared inputs of a comparison.
type Params struct {
	AreaM2         float64
	DailyUsageL    float64
	RunoffCoeff    float64
	WaterRatePerKL float64

	// TankSizesL defaults to DefaultTankSizesL when empty. It is sorted
	// ascending before use.
	TankSizesL []int
}

// Entry holds the derived metrics for one candidate size. Volumes are
// litres, offsets and efficiencies percentages, savings dollars per year.
type Entry struct {
	TankSizeL         int     `json:"tank_size_l"`
	RainwaterUsedL    float64 `json:"rainwater_used_l"`
	MainsNeededL      float64 `json:"mains_needed_l"`
	PercentOffset     float64 `json:"percent_offset"`
	AnnualSavings     float64 `json:"annual_savings"`
	OverflowL         float64 `json:"overflow_l"`
	OverflowPct       float64 `json:"overflow_percent"`
	CaptureEfficiency float64 `json:"capture_efficiency_percent"`
	DaysEmpty         int     `json:"days_empty"`
}

// Comparison is the full output: one entry per candidate, ascending by
// size, plus the selected best-value index.
type Comparison struct {
	Entries []Entry `json:"entries"`

	// BestValueIndex points into Entries; -1 when there are none.
	BestValueIndex int `json:"best_value_index"`

	// TotalPotentialCaptureL is the catchment yield over the whole record
	// were every litre captured, independent of tank size.
	TotalPotentialCaptureL float64 `json:"total_potential_capture_l"`
}

// BestValue returns the selected entry.
func (c *Comparison) BestValue() Entry {
	return c.Entries[c.BestValueIndex]
}

// Analyzer runs multi-capacity comparisons.
type Analyzer struct {
	selector Selector
	logger   *slog.Logger
}

// NewAnalyzer creates an Analyzer. A nil selector uses the marginal
// efficiency knee detector with its default constants.
func NewAnalyzer(selector Selector, logger *slog.Logger) *Analyzer {
	if selector == nil {
		selector = NewMarginalEfficiencySelector()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{selector: selector, logger: logger}
}

// Compare simulates every candidate size independently and derives the
// per-size metrics. The candidate runs share nothing, so they fan out in
// parallel.
func (a *Analyzer) Compare(obs []rainfall.Observation, p Params) (*Comparison, error) {
	sizes := p.TankSizesL
	if len(sizes) == 0 {
		sizes = DefaultTankSizesL
	}
	sizes = append([]int(nil), sizes...)
	sort.Ints(sizes)

	rate := p.WaterRatePerKL
	if rate == 0 {
		rate = DefaultWaterRatePerKL
	}
	coeff := p.RunoffCoeff
	if coeff == 0 {
		coeff = simulation.DefaultRunoffCoefficient
	}

	// Capacity-independent: what the catchment could yield in total.
	potential := potentialCaptureL(obs, p.AreaM2, coeff)
	if potential <= 0 {
		return nil, fmt.Errorf("%w: record contains no capturable rainfall", simulation.ErrInvalidInput)
	}

	comparison := &Comparison{
		Entries:                make([]Entry, len(sizes)),
		TotalPotentialCaptureL: potential,
	}

	var g errgroup.Group
	for i, size := range sizes {
		g.Go(func() error {
			res, err := simulation.Simulate(obs, simulation.Params{
				TankSizeL:   float64(size),
				AreaM2:      p.AreaM2,
				DailyUsageL: p.DailyUsageL,
				RunoffCoeff: coeff,
			})
			if err != nil {
				return fmt.Errorf("comparing %d L: %w", size, err)
			}
			comparison.Entries[i] = makeEntry(size, res, p.DailyUsageL, rate, potential)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	comparison.BestValueIndex = a.selector.Select(comparison.Entries)
	if comparison.BestValueIndex >= 0 {
		a.logger.Info("comparison complete",
			"candidates", len(sizes),
			"best_value_l", comparison.Entries[comparison.BestValueIndex].TankSizeL,
		)
	}
	return comparison, nil
}

func makeEntry(sizeL int, res *simulation.Result, dailyUsageL, ratePerKL, potentialL float64) Entry {
	totalDemand := dailyUsageL * float64(res.Summary.TotalDays)
	rainUsed := totalDemand - res.Summary.TotalDeficitL
	years := float64(res.Summary.TotalDays) / daysPerYear
	overflow := res.Summary.TotalOverflowL

	return Entry{
		TankSizeL:         sizeL,
		RainwaterUsedL:    rainUsed,
		MainsNeededL:      res.Summary.TotalDeficitL,
		PercentOffset:     rainUsed / totalDemand * 100,
		AnnualSavings:     rainUsed / years / 1000 * ratePerKL,
		OverflowL:         overflow,
		OverflowPct:       overflow / potentialL * 100,
		CaptureEfficiency: (potentialL - overflow) / potentialL * 100,
		DaysEmpty:         res.Summary.DaysEmpty,
	}
}

func potentialCaptureL(obs []rainfall.Observation, areaM2, coeff float64) float64 {
	var total float64
	for _, o := range obs {
		if !o.Missing {
			total += o.RainMM * areaM2 * coeff
		}
	}
	return total
}
