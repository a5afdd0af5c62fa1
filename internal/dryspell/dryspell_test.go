package dryspell

import (
	"testing"
	"time"

	"github.com/bill-mca/dry-spell/internal/rainfall"
)

var seriesStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// makeSeries builds consecutive daily observations from seriesStart. A
// negative amount marks the day as missing.
func makeSeries(mm ...float64) []rainfall.Observation {
	obs := make([]rainfall.Observation, len(mm))
	for i, v := range mm {
		date := seriesStart.AddDate(0, 0, i)
		if v < 0 {
			obs[i] = rainfall.MissingObservation(date)
		} else {
			obs[i] = rainfall.NewObservation(date, v)
		}
	}
	return obs
}

func TestDetect(t *testing.T) {
	// Dry runs under 1 mm: days 0-1, days 3-6, days 8-9 (missing counts
	// dry, and the last run ends at the data boundary).
	obs := makeSeries(0, 0.5, 2, 0, 0, 0, 0, 5, -1, 0)
	dist := Detect(obs, 1.0)

	if len(dist.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d: %+v", len(dist.Runs), dist.Runs)
	}

	wantDays := []int{2, 4, 2}
	for i, want := range wantDays {
		if dist.Runs[i].Days != want {
			t.Errorf("run %d: days = %d, want %d", i, dist.Runs[i].Days, want)
		}
	}

	if dist.Runs[0].TotalRainMM != 0.5 {
		t.Errorf("run 0 total rain = %v, want 0.5", dist.Runs[0].TotalRainMM)
	}

	if dist.Longest == nil || dist.Longest.Days != 4 {
		t.Fatalf("longest = %+v, want 4-day run", dist.Longest)
	}
	if !dist.Longest.Start.Equal(seriesStart.AddDate(0, 0, 3)) {
		t.Errorf("longest start = %v, want 4 Jan", dist.Longest.Start)
	}
}

func TestDetect_TrailingRunFlushed(t *testing.T) {
	// Every day dry: one run spanning the whole record, closed only by
	// end-of-data.
	obs := makeSeries(0, 0, 0, 0, 0)
	dist := Detect(obs, 1.0)

	if len(dist.Runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(dist.Runs))
	}
	r := dist.Runs[0]
	if r.Days != 5 || !r.End.Equal(seriesStart.AddDate(0, 0, 4)) {
		t.Errorf("run = %+v, want 5 days ending 5 Jan", r)
	}
}

func TestDetect_Bins(t *testing.T) {
	// Runs of 2, 5, and 16 days separated by wet days.
	var mm []float64
	appendRun := func(n int) {
		for i := 0; i < n; i++ {
			mm = append(mm, 0)
		}
		mm = append(mm, 10)
	}
	appendRun(2)
	appendRun(5)
	appendRun(16)

	dist := Detect(makeSeries(mm...), 1.0)

	wantCounts := map[string]int{
		"1-3 days":   1,
		"4-7 days":   1,
		"8-14 days":  0,
		"15-30 days": 1,
		"31-60 days": 0,
		"60+ days":   0,
	}
	for _, b := range dist.Bins {
		if b.Count != wantCounts[b.Label] {
			t.Errorf("bin %s: count = %d, want %d", b.Label, b.Count, wantCounts[b.Label])
		}
		if b.Count > 0 && len(b.Examples) == 0 {
			t.Errorf("bin %s: no example dates", b.Label)
		}
	}
}

func TestDetect_CoversAllDryDays(t *testing.T) {
	obs := makeSeries(0, 3, 0, 0, 3, -1, 0.2, 3, 0)
	dist := Detect(obs, 1.0)

	dryDays := 0
	for _, o := range obs {
		if o.Missing || o.RainMM < 1.0 {
			dryDays++
		}
	}
	runDays := 0
	for _, r := range dist.Runs {
		runDays += r.Days
	}
	if runDays != dryDays {
		t.Errorf("runs cover %d days, record has %d dry days", runDays, dryDays)
	}
}

func TestDetect_NoDryDays(t *testing.T) {
	dist := Detect(makeSeries(5, 8, 12), 1.0)
	if len(dist.Runs) != 0 || dist.Longest != nil {
		t.Errorf("expected no runs, got %+v", dist)
	}
}

func TestDetect_DefaultThreshold(t *testing.T) {
	dist := Detect(makeSeries(0.5), 0)
	if dist.ThresholdMM != DefaultDryDayThresholdMM {
		t.Errorf("threshold = %v, want default", dist.ThresholdMM)
	}
	if len(dist.Runs) != 1 {
		t.Errorf("0.5 mm day should be dry under the default threshold")
	}
}
