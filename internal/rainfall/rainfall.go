// Package rainfall holds the daily rainfall record model and the readers
// that produce it from raw tabular exports.
package rainfall

import (
	"fmt"
	"time"
)

// Observation is a single day of the rainfall record. Missing marks days
// the gauge reported no value at all; RainMM is meaningless when set.
type Observation struct {
	Date    time.Time `json:"date"`
	RainMM  float64   `json:"rainfall_mm"`
	Missing bool      `json:"missing,omitempty"`
}

// NewObservation builds a recorded (non-missing) observation.
func NewObservation(date time.Time, rainMM float64) Observation {
	return Observation{Date: date.UTC(), RainMM: rainMM}
}

// MissingObservation builds an observation for a day with no recorded value.
func MissingObservation(date time.Time) Observation {
	return Observation{Date: date.UTC(), Missing: true}
}

// ValidateSeries checks the caller-side contract on a rainfall record:
// non-empty, strictly increasing dates (no duplicates), and non-negative
// rainfall on recorded days.
func ValidateSeries(obs []Observation) error {
	if len(obs) == 0 {
		return fmt.Errorf("rainfall series is empty")
	}
	for i, o := range obs {
		if !o.Missing && o.RainMM < 0 {
			return fmt.Errorf("observation %s: negative rainfall %.2f mm", o.Date.Format(time.DateOnly), o.RainMM)
		}
		if i == 0 {
			continue
		}
		prev := obs[i-1].Date
		switch {
		case o.Date.Equal(prev):
			return fmt.Errorf("duplicate observation date %s", o.Date.Format(time.DateOnly))
		case o.Date.Before(prev):
			return fmt.Errorf("observation date %s out of order (follows %s)",
				o.Date.Format(time.DateOnly), prev.Format(time.DateOnly))
		}
	}
	return nil
}

// Span returns the first and last observation dates. The series must be
// non-empty.
func Span(obs []Observation) (first, last time.Time) {
	return obs[0].Date, obs[len(obs)-1].Date
}

// TotalMM sums recorded rainfall over the series. Missing days contribute
// nothing.
func TotalMM(obs []Observation) float64 {
	var total float64
	for _, o := range obs {
		if !o.Missing {
			total += o.RainMM
		}
	}
	return total
}

// MissingCount reports how many days of the series carry no recorded value.
func MissingCount(obs []Observation) int {
	n := 0
	for _, o := range obs {
		if o.Missing {
			n++
		}
	}
	return n
}
