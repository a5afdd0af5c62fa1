package sizing

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/bill-mca/dry-spell/internal/rainfall"
	"github.com/bill-mca/dry-spell/internal/simulation"
)

var seriesStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func makeSeries(mm ...float64) []rainfall.Observation {
	obs := make([]rainfall.Observation, len(mm))
	for i, v := range mm {
		obs[i] = rainfall.NewObservation(seriesStart.AddDate(0, 0, i), v)
	}
	return obs
}

// burstSeries is 60 days with a single 100 mm downpour on day one. On a
// 100 m2 roof at the default runoff coefficient that is 8500 L of inflow,
// followed by 59 dry days of drawdown.
func burstSeries() []rainfall.Observation {
	mm := make([]float64, 60)
	mm[0] = 100
	return makeSeries(mm...)
}

func quietSearcher(domain Domain) *Searcher {
	return NewSearcher(domain, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFindMinimumTank(t *testing.T) {
	s := quietSearcher(Domain{})
	res, err := s.FindMinimumTank(burstSeries(), Params{AreaM2: 100, DailyUsageL: 100}, 1.0)
	if err != nil {
		t.Fatalf("FindMinimumTank: %v", err)
	}

	// At 100 L/day usage the tank fills on day one and must then carry 59
	// dry days. A 5500 L tank runs empty for the last 5 days; 6000 L is
	// the smallest grid size that never does.
	if res.ExactMinimumL != 6000 {
		t.Errorf("exact minimum = %d, want 6000", res.ExactMinimumL)
	}
	if res.RecommendedL != 6000 {
		t.Errorf("recommended = %d, want 6000", res.RecommendedL)
	}
	if res.AchievedConfidence != 100 {
		t.Errorf("achieved confidence = %v, want 100", res.AchievedConfidence)
	}
	if res.ReachedLimit {
		t.Error("reached limit on a satisfiable target")
	}
}

func TestFindMinimumTank_ExactIsMinimal(t *testing.T) {
	s := quietSearcher(Domain{})
	obs := burstSeries()
	p := Params{AreaM2: 100, DailyUsageL: 100}

	res, err := s.FindMinimumTank(obs, p, 1.0)
	if err != nil {
		t.Fatal(err)
	}

	// One grid step below the exact minimum must miss the target.
	below, err := simulation.Simulate(obs, simulation.Params{
		TankSizeL: float64(res.ExactMinimumL - DefaultDomain.StepL), AreaM2: 100, DailyUsageL: 100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if below.Summary.ReliabilityPct >= 100 {
		t.Errorf("tank one step below exact minimum achieved %v%%, search overshot",
			below.Summary.ReliabilityPct)
	}
}

func TestFindMinimumTank_ReliabilityMonotoneAboveRecommendation(t *testing.T) {
	s := quietSearcher(Domain{})
	obs := burstSeries()
	res, err := s.FindMinimumTank(obs, Params{AreaM2: 100, DailyUsageL: 100}, 0.95)
	if err != nil {
		t.Fatal(err)
	}

	// Every capacity above the recommendation must also meet the target.
	for _, extra := range []int{1000, 5000, 20000} {
		sim, err := simulation.Simulate(obs, simulation.Params{
			TankSizeL: float64(res.RecommendedL + extra), AreaM2: 100, DailyUsageL: 100,
		})
		if err != nil {
			t.Fatal(err)
		}
		if sim.Summary.ReliabilityPct/100 < 0.95 {
			t.Errorf("capacity %d L achieved %v%%, below target",
				res.RecommendedL+extra, sim.Summary.ReliabilityPct)
		}
	}
}

func TestFindMinimumTank_ReachedLimit(t *testing.T) {
	// 400 rainless days against 500 L/day usage: even the largest tank in
	// the domain starts half full, drains in 100 days, and sits empty for
	// the remaining 301.
	obs := makeSeries(make([]float64, 400)...)

	s := quietSearcher(Domain{})
	res, err := s.FindMinimumTank(obs, Params{AreaM2: 100, DailyUsageL: 500}, 0.9)
	if err != nil {
		t.Fatalf("FindMinimumTank: %v", err)
	}

	if !res.ReachedLimit {
		t.Fatal("expected ReachedLimit on an unsatisfiable target")
	}
	if res.RecommendedL != DefaultDomain.MaxTankL || res.ExactMinimumL != DefaultDomain.MaxTankL {
		t.Errorf("result = %+v, want both sizes pinned at the domain maximum", res)
	}
	if want := (400.0 - 301.0) / 400.0 * 100; res.AchievedConfidence != want {
		t.Errorf("achieved confidence = %v, want %v", res.AchievedConfidence, want)
	}
}

func TestFindMinimumTank_PracticalRounding(t *testing.T) {
	// A domain whose grid is finer than its practical granularity: the
	// recommendation must round the exact minimum up, never down.
	s := quietSearcher(Domain{MinTankL: 1000, MaxTankL: 20000, StepL: 500, PracticalRoundL: 1000})
	res, err := s.FindMinimumTank(burstSeries(), Params{AreaM2: 100, DailyUsageL: 90}, 1.0)
	if err != nil {
		t.Fatal(err)
	}

	// 59 dry days at 90 L/day need strictly more than 5310 L of storage,
	// so the grid minimum is 5500 L and the practical size 6000 L.
	if res.ExactMinimumL != 5500 {
		t.Errorf("exact minimum = %d, want 5500", res.ExactMinimumL)
	}
	if res.RecommendedL != 6000 {
		t.Errorf("recommended = %d, want 6000", res.RecommendedL)
	}
	if res.RecommendedL%1000 != 0 {
		t.Errorf("recommended = %d, not on the 1000 L practical grid", res.RecommendedL)
	}
	if res.RecommendedL < res.ExactMinimumL {
		t.Errorf("recommended %d below exact minimum %d", res.RecommendedL, res.ExactMinimumL)
	}
	if res.RecommendedL-res.ExactMinimumL >= 1000 {
		t.Errorf("recommended %d overshoots exact minimum %d by a full step",
			res.RecommendedL, res.ExactMinimumL)
	}
}

func TestFindMinimumTank_InvalidTarget(t *testing.T) {
	s := quietSearcher(Domain{})
	obs := makeSeries(1, 2, 3)

	for _, target := range []float64{0, -0.5, 1.01, 2} {
		res, err := s.FindMinimumTank(obs, Params{AreaM2: 100, DailyUsageL: 100}, target)
		if !errors.Is(err, simulation.ErrInvalidInput) {
			t.Errorf("target %v: error = %v, want ErrInvalidInput", target, err)
		}
		if res != nil {
			t.Errorf("target %v: expected nil result", target)
		}
	}
}

func TestNewSearcher_ZeroDomainDefaults(t *testing.T) {
	s := NewSearcher(Domain{}, nil)
	if s.domain != DefaultDomain {
		t.Errorf("domain = %+v, want DefaultDomain", s.domain)
	}
	if s.logger == nil {
		t.Error("nil logger was not defaulted")
	}
}
