package sizing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/bill-mca/dry-spell/internal/rainfall"
	"github.com/bill-mca/dry-spell/internal/simulation"
)

// sweepFractions are the smaller-tank candidates tried against a
// recommended size, as fractions of it.
var sweepFractions = []float64{0.75, 0.5, 0.33, 0.25}

// SweepEntry is the outcome of re-simulating one smaller tank.
type SweepEntry struct {
	TankSizeL      int                 `json:"tank_size_l"`
	ReliabilityPct float64             `json:"reliability_percent"`
	DaysEmpty      int                 `json:"days_empty"`
	EmptyPeriods   []simulation.Period `json:"empty_periods,omitempty"`
	FailureSummary string              `json:"failure_summary"`
}

// CompareSmallerTanks re-simulates a set of tanks smaller than the
// recommended size and summarizes how each would have failed over the
// record. Candidates are the sweep fractions of recommendedL, rounded to
// the nearest 1000 L, deduplicated, sorted largest first, and dropped when
// below the domain minimum.
func (s *Searcher) CompareSmallerTanks(obs []rainfall.Observation, p Params, recommendedL int) ([]SweepEntry, error) {
	seen := make(map[int]bool)
	var sizes []int
	for _, f := range sweepFractions {
		size := int(math.Round(f*float64(recommendedL)/1000)) * 1000
		if size < s.domain.MinTankL || size >= recommendedL || seen[size] {
			continue
		}
		seen[size] = true
		sizes = append(sizes, size)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sizes)))

	entries := make([]SweepEntry, 0, len(sizes))
	for _, size := range sizes {
		res, err := s.simulateAt(obs, p, size)
		if err != nil {
			return nil, fmt.Errorf("sweeping %d L: %w", size, err)
		}
		entries = append(entries, SweepEntry{
			TankSizeL:      size,
			ReliabilityPct: res.Summary.ReliabilityPct,
			DaysEmpty:      res.Summary.DaysEmpty,
			EmptyPeriods:   res.EmptyPeriods,
			FailureSummary: failureSummary(res.EmptyPeriods),
		})
	}
	return entries, nil
}

// failureSummary renders empty periods as one line of prose: nothing to
// report, a dated description, a short enumeration, or per-year counts when
// the list gets long.
func failureSummary(periods []simulation.Period) string {
	switch n := len(periods); {
	case n == 0:
		return "never ran empty"
	case n == 1:
		return "ran empty once: " + describePeriod(periods[0])
	case n <= 4:
		parts := make([]string, len(periods))
		for i, p := range periods {
			parts[i] = describePeriod(p)
		}
		return fmt.Sprintf("ran empty %d times: %s", n, strings.Join(parts, "; "))
	default:
		byYear := make(map[int]int)
		for _, p := range periods {
			byYear[p.Year]++
		}
		years := make([]int, 0, len(byYear))
		for y := range byYear {
			years = append(years, y)
		}
		sort.Ints(years)
		parts := make([]string, len(years))
		for i, y := range years {
			parts[i] = fmt.Sprintf("%d in %d", byYear[y], y)
		}
		return fmt.Sprintf("ran empty %d times: %s", n, strings.Join(parts, ", "))
	}
}

func describePeriod(p simulation.Period) string {
	if p.Days == 1 {
		return fmt.Sprintf("1 day on %s", p.Start.Format("2 Jan 2006"))
	}
	return fmt.Sprintf("%d days (%s to %s)",
		p.Days, p.Start.Format("2 Jan 2006"), p.End.Format("2 Jan 2006"))
}
