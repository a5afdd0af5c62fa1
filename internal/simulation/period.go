package simulation

import "time"

// Period is a maximal run of consecutive days satisfying one predicate.
// Year is set on empty periods, MinLevelL on stress periods, and
// TotalRainMM on dry spells; the other extras stay zero.
type Period struct {
	Start       time.Time `json:"start_date"`
	End         time.Time `json:"end_date"`
	Days        int       `json:"duration_days"`
	Year        int       `json:"year,omitempty"`
	MinLevelL   float64   `json:"min_level_l,omitempty"`
	TotalRainMM float64   `json:"total_rainfall_mm,omitempty"`
}

// periodTracker is the open/close state machine behind period lists. A
// period opens on the first day its predicate holds, extends while it keeps
// holding, and closes on the first day it does not. Callers must flush
// after the last observation or a period ending at the data boundary is
// lost.
type periodTracker struct {
	open      bool
	start     time.Time
	end       time.Time
	days      int
	minLevelL float64
}

// advance feeds one day into the tracker. It returns a closed period, if
// this day ended one.
func (t *periodTracker) advance(date time.Time, active bool, levelL float64) (Period, bool) {
	if active {
		if !t.open {
			t.open = true
			t.start = date
			t.days = 0
			t.minLevelL = levelL
		}
		t.end = date
		t.days++
		if levelL < t.minLevelL {
			t.minLevelL = levelL
		}
		return Period{}, false
	}
	return t.flush()
}

// flush closes any still-open period.
func (t *periodTracker) flush() (Period, bool) {
	if !t.open {
		return Period{}, false
	}
	p := Period{
		Start:     t.start,
		End:       t.end,
		Days:      t.days,
		MinLevelL: t.minLevelL,
	}
	t.open = false
	return p, true
}
