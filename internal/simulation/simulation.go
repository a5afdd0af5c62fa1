// Package simulation implements the day-by-day water-balance model of a
// rainwater tank against a historical rainfall record.
package simulation

import (
	"errors"
	"fmt"
	"time"

	"github.com/bill-mca/dry-spell/internal/dryspell"
	"github.com/bill-mca/dry-spell/internal/rainfall"
)

// ErrInvalidInput marks calls rejected before any simulation work: empty
// series, non-positive tank size, catchment area, or daily usage, or an
// out-of-range confidence target. Match with errors.Is.
var ErrInvalidInput = errors.New("invalid input")

const (
	// DefaultRunoffCoefficient is the fraction of roof rainfall captured
	// as inflow when the caller does not supply one.
	DefaultRunoffCoefficient = 0.85

	// DefaultStressFraction is the tank level, as a fraction of capacity,
	// below which a day counts as stressed.
	DefaultStressFraction = 0.20
)

// Params configures a single simulation run. TankSizeL, AreaM2, and
// DailyUsageL are required; the rest default when zero (or nil).
type Params struct {
	TankSizeL   float64
	AreaM2      float64
	DailyUsageL float64

	// RunoffCoeff defaults to DefaultRunoffCoefficient when zero.
	RunoffCoeff float64

	// StressFraction defaults to DefaultStressFraction when zero.
	StressFraction float64

	// InitialLevelL defaults to half the tank size when nil, and is
	// clamped into [0, TankSizeL] otherwise.
	InitialLevelL *float64

	// WorstSpellThresholdMM is the running-average rainfall threshold for
	// the worst-dry-spell field, defaulting to
	// dryspell.DefaultRunningAvgThresholdMM when zero.
	WorstSpellThresholdMM float64
}

func (p Params) validate(obs []rainfall.Observation) error {
	if len(obs) == 0 {
		return fmt.Errorf("%w: empty observation series", ErrInvalidInput)
	}
	if p.TankSizeL <= 0 {
		return fmt.Errorf("%w: tank size must be positive, got %.0f L", ErrInvalidInput, p.TankSizeL)
	}
	if p.AreaM2 <= 0 {
		return fmt.Errorf("%w: catchment area must be positive, got %.0f m2", ErrInvalidInput, p.AreaM2)
	}
	if p.DailyUsageL <= 0 {
		return fmt.Errorf("%w: daily usage must be positive, got %.0f L", ErrInvalidInput, p.DailyUsageL)
	}
	return nil
}

// DailyState is one simulated day. At most one of OverflowL and DeficitL is
// nonzero: they are the positive and negative parts of the same pre-clamp
// balance.
type DailyState struct {
	Date      time.Time `json:"date"`
	LevelL    float64   `json:"level_l"`
	InflowL   float64   `json:"inflow_l"`
	UsageL    float64   `json:"usage_l"`
	OverflowL float64   `json:"overflow_l"`
	DeficitL  float64   `json:"deficit_l"`
	Empty     bool      `json:"is_empty"`
	Stressed  bool      `json:"is_stressed"`
}

// Summary aggregates a full simulation run.
type Summary struct {
	TotalDays       int     `json:"total_days"`
	DaysEmpty       int     `json:"days_empty"`
	DaysBelowStress int     `json:"days_below_stress"`
	DaysBelowHalf   int     `json:"days_below_50pct"`
	TotalOverflowL  float64 `json:"total_overflow_l"`
	TotalDeficitL   float64 `json:"total_deficit_l"`
	ReliabilityPct  float64 `json:"reliability_percent"`
	StressPct       float64 `json:"stress_percent"`
}

// Result is the complete output of one simulation run. It is never mutated
// after Simulate returns.
type Result struct {
	Daily         []DailyState `json:"daily_states"`
	Summary       Summary      `json:"summary"`
	EmptyPeriods  []Period     `json:"empty_periods"`
	StressPeriods []Period     `json:"stress_periods"`
	WorstDrySpell *Period      `json:"worst_dry_spell,omitempty"`
}

// Simulate runs the daily water-balance recurrence over the rainfall
// record. Each day adds captured inflow (1 mm over 1 m2 is 1 L; missing
// days add nothing), subtracts usage, books the excess over capacity as
// overflow and the shortfall below zero as deficit, and clamps the level
// into [0, TankSizeL].
func Simulate(obs []rainfall.Observation, p Params) (*Result, error) {
	if err := p.validate(obs); err != nil {
		return nil, err
	}

	coeff := p.RunoffCoeff
	if coeff == 0 {
		coeff = DefaultRunoffCoefficient
	}
	stressFrac := p.StressFraction
	if stressFrac == 0 {
		stressFrac = DefaultStressFraction
	}
	stressLevel := stressFrac * p.TankSizeL
	halfLevel := 0.5 * p.TankSizeL

	current := p.TankSizeL / 2
	if p.InitialLevelL != nil {
		current = clamp(*p.InitialLevelL, 0, p.TankSizeL)
	}

	res := &Result{Daily: make([]DailyState, 0, len(obs))}
	var emptyRuns, stressRuns periodTracker

	for _, o := range obs {
		var inflow float64
		if !o.Missing {
			inflow = o.RainMM * p.AreaM2 * coeff
		}

		raw := current + inflow - p.DailyUsageL
		overflow := max(0, raw-p.TankSizeL)
		deficit := max(0, -raw)
		level := clamp(raw, 0, p.TankSizeL)
		current = level

		day := DailyState{
			Date:      o.Date,
			LevelL:    level,
			InflowL:   inflow,
			UsageL:    p.DailyUsageL,
			OverflowL: overflow,
			DeficitL:  deficit,
			Empty:     level == 0,
			Stressed:  level < stressLevel,
		}
		res.Daily = append(res.Daily, day)

		res.Summary.TotalDays++
		res.Summary.TotalOverflowL += overflow
		res.Summary.TotalDeficitL += deficit
		if day.Empty {
			res.Summary.DaysEmpty++
		}
		if day.Stressed {
			res.Summary.DaysBelowStress++
		}
		if level < halfLevel {
			res.Summary.DaysBelowHalf++
		}

		if per, closed := emptyRuns.advance(o.Date, day.Empty, level); closed {
			res.EmptyPeriods = append(res.EmptyPeriods, emptyPeriod(per))
		}
		if per, closed := stressRuns.advance(o.Date, day.Stressed, level); closed {
			res.StressPeriods = append(res.StressPeriods, per)
		}
	}

	// Periods still open at the end of the record count in full.
	if per, closed := emptyRuns.flush(); closed {
		res.EmptyPeriods = append(res.EmptyPeriods, emptyPeriod(per))
	}
	if per, closed := stressRuns.flush(); closed {
		res.StressPeriods = append(res.StressPeriods, per)
	}

	totalDays := float64(res.Summary.TotalDays)
	res.Summary.ReliabilityPct = (totalDays - float64(res.Summary.DaysEmpty)) / totalDays * 100
	res.Summary.StressPct = float64(res.Summary.DaysBelowStress) / totalDays * 100

	// The worst dry spell depends only on the rainfall record, not on the
	// tank parameters, so this recomputes the same value on every call at
	// a given record. It stays here so that every Result carries the
	// field.
	if worst := dryspell.WorstByRunningAverage(obs, p.WorstSpellThresholdMM); worst != nil {
		res.WorstDrySpell = &Period{
			Start:       worst.Start,
			End:         worst.End,
			Days:        worst.Days,
			TotalRainMM: worst.TotalRainMM,
		}
	}

	return res, nil
}

// emptyPeriod strips the stress-specific extra from a closed run and sets
// the empty-specific one.
func emptyPeriod(p Period) Period {
	p.MinLevelL = 0
	p.Year = p.Start.Year()
	return p
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
