// Package dryspell finds runs of consecutive dry days in a rainfall record.
//
// It provides two distinct detectors. Detect finds every maximal run of
// days individually below a fixed threshold and buckets them by duration.
// WorstByRunningAverage grows a single run while its average rainfall stays
// below a threshold. The predicates differ, so the implementations are
// deliberately separate.
package dryspell

import (
	"time"

	"github.com/bill-mca/dry-spell/internal/rainfall"
)

// DefaultDryDayThresholdMM is the per-day rainfall below which a day counts
// as dry for the run detector.
const DefaultDryDayThresholdMM = 1.0

// DefaultRunningAvgThresholdMM is the running-average rainfall ceiling for
// the worst-spell detector, in mm per day.
const DefaultRunningAvgThresholdMM = 2.0

// Run is a consecutive sequence of dry days.
type Run struct {
	Start       time.Time `json:"start_date"`
	End         time.Time `json:"end_date"`
	Days        int       `json:"duration_days"`
	TotalRainMM float64   `json:"total_rainfall_mm"`
}

// maxExamplesPerBin caps how many example start dates each duration bin
// keeps in a Distribution.
const maxExamplesPerBin = 3

// Bin counts dry runs whose duration falls inside a fixed day range.
type Bin struct {
	Label    string      `json:"label"`
	MinDays  int         `json:"min_days"`
	MaxDays  int         `json:"max_days"` // 0 means unbounded
	Count    int         `json:"count"`
	Examples []time.Time `json:"example_start_dates,omitempty"`
}

// Distribution is the output of Detect: every maximal dry run, the duration
// histogram, and the single longest run.
type Distribution struct {
	ThresholdMM float64 `json:"threshold_mm"`
	Runs        []Run   `json:"runs"`
	Bins        []Bin   `json:"bins"`
	Longest     *Run    `json:"longest,omitempty"`
}

func newBins() []Bin {
	return []Bin{
		{Label: "1-3 days", MinDays: 1, MaxDays: 3},
		{Label: "4-7 days", MinDays: 4, MaxDays: 7},
		{Label: "8-14 days", MinDays: 8, MaxDays: 14},
		{Label: "15-30 days", MinDays: 15, MaxDays: 30},
		{Label: "31-60 days", MinDays: 31, MaxDays: 60},
		{Label: "60+ days", MinDays: 61},
	}
}

// Detect finds all maximal runs of consecutive dry days, where a day is dry
// if it is missing or its rainfall is below thresholdMM. Pass thresholdMM
// <= 0 to use DefaultDryDayThresholdMM.
func Detect(obs []rainfall.Observation, thresholdMM float64) Distribution {
	if thresholdMM <= 0 {
		thresholdMM = DefaultDryDayThresholdMM
	}

	dist := Distribution{ThresholdMM: thresholdMM, Bins: newBins()}

	var cur *Run
	flush := func() {
		if cur == nil {
			return
		}
		dist.Runs = append(dist.Runs, *cur)
		cur = nil
	}

	for _, o := range obs {
		dry := o.Missing || o.RainMM < thresholdMM
		if !dry {
			flush()
			continue
		}
		if cur == nil {
			cur = &Run{Start: o.Date}
		}
		cur.End = o.Date
		cur.Days++
		if !o.Missing {
			cur.TotalRainMM += o.RainMM
		}
	}
	// A run still open at end-of-data is a real run.
	flush()

	for i := range dist.Runs {
		r := &dist.Runs[i]
		if dist.Longest == nil || r.Days > dist.Longest.Days {
			dist.Longest = r
		}
		for b := range dist.Bins {
			bin := &dist.Bins[b]
			if r.Days < bin.MinDays || (bin.MaxDays > 0 && r.Days > bin.MaxDays) {
				continue
			}
			bin.Count++
			if len(bin.Examples) < maxExamplesPerBin {
				bin.Examples = append(bin.Examples, r.Start)
			}
			break
		}
	}

	return dist
}
