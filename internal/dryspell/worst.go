package dryspell

import (
	"github.com/bill-mca/dry-spell/internal/rainfall"
)

// WorstByRunningAverage finds the longest run of days whose cumulative
// rainfall divided by the run length stays below avgThresholdMM. A day that
// would lift the running average to or past the threshold closes the
// current run and starts a new one at that day. Missing days contribute
// zero rainfall. Pass avgThresholdMM <= 0 to use
// DefaultRunningAvgThresholdMM. Returns nil for an empty series.
//
// This predicate is not the per-day threshold used by Detect: a run here
// may contain individually wet days as long as the average stays low.
func WorstByRunningAverage(obs []rainfall.Observation, avgThresholdMM float64) *Run {
	if len(obs) == 0 {
		return nil
	}
	if avgThresholdMM <= 0 {
		avgThresholdMM = DefaultRunningAvgThresholdMM
	}

	var best *Run
	consider := func(r Run) {
		if best == nil || r.Days > best.Days {
			best = &r
		}
	}

	rain := func(o rainfall.Observation) float64 {
		if o.Missing {
			return 0
		}
		return o.RainMM
	}

	cur := Run{Start: obs[0].Date, End: obs[0].Date, Days: 1, TotalRainMM: rain(obs[0])}
	for _, o := range obs[1:] {
		mm := rain(o)
		if (cur.TotalRainMM+mm)/float64(cur.Days+1) < avgThresholdMM {
			cur.End = o.Date
			cur.Days++
			cur.TotalRainMM += mm
			continue
		}
		consider(cur)
		cur = Run{Start: o.Date, End: o.Date, Days: 1, TotalRainMM: mm}
	}
	// The final run is a candidate too.
	consider(cur)

	return best
}
