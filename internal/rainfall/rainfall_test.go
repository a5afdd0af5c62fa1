package rainfall

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestValidateSeries(t *testing.T) {
	tests := []struct {
		name    string
		obs     []Observation
		wantErr bool
	}{
		{
			name:    "empty series",
			obs:     nil,
			wantErr: true,
		},
		{
			name: "valid series",
			obs: []Observation{
				NewObservation(day(2020, 1, 1), 0),
				MissingObservation(day(2020, 1, 2)),
				NewObservation(day(2020, 1, 3), 12.4),
			},
			wantErr: false,
		},
		{
			name: "duplicate date",
			obs: []Observation{
				NewObservation(day(2020, 1, 1), 0),
				NewObservation(day(2020, 1, 1), 5),
			},
			wantErr: true,
		},
		{
			name: "out of order",
			obs: []Observation{
				NewObservation(day(2020, 1, 2), 0),
				NewObservation(day(2020, 1, 1), 0),
			},
			wantErr: true,
		},
		{
			name: "negative rainfall",
			obs: []Observation{
				NewObservation(day(2020, 1, 1), -0.2),
			},
			wantErr: true,
		},
		{
			name: "gappy dates are fine",
			obs: []Observation{
				NewObservation(day(2020, 1, 1), 3),
				NewObservation(day(2020, 3, 9), 0),
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSeries(tt.obs)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSeries() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSeriesHelpers(t *testing.T) {
	obs := []Observation{
		NewObservation(day(2020, 1, 1), 3),
		MissingObservation(day(2020, 1, 2)),
		NewObservation(day(2020, 1, 3), 1.5),
	}

	first, last := Span(obs)
	if !first.Equal(day(2020, 1, 1)) || !last.Equal(day(2020, 1, 3)) {
		t.Errorf("Span() = %v, %v", first, last)
	}
	if got := TotalMM(obs); got != 4.5 {
		t.Errorf("TotalMM() = %v, want 4.5", got)
	}
	if got := MissingCount(obs); got != 1 {
		t.Errorf("MissingCount() = %d, want 1", got)
	}
}
