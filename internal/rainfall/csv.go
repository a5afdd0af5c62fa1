package rainfall

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted in rainfall CSV exports. BOM daily-rainfall files
// use DD/MM/YYYY; most other sources use ISO dates.
var dateLayouts = []string{
	time.DateOnly,
	"02/01/2006",
	"2/1/2006",
}

// ReadFile reads a daily rainfall CSV from disk. See Read for the format.
func ReadFile(path string) ([]Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rainfall file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	obs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return obs, nil
}

// Read parses a two-column CSV of date,rainfall_mm rows. A header row is
// detected and skipped. An empty, "NA", or "null" amount marks the day as
// missing. The resulting series must be chronological with no duplicate
// dates and no negative rainfall.
func Read(r io.Reader) ([]Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var obs []Observation
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing csv: %w", err)
		}
		line++

		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected date,rainfall_mm columns, got %d fields", line, len(record))
		}

		date, err := parseDate(record[0])
		if err != nil {
			if line == 1 {
				// Header row.
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		amount := strings.TrimSpace(record[1])
		switch strings.ToLower(amount) {
		case "", "na", "null":
			obs = append(obs, MissingObservation(date))
			continue
		}

		mm, err := strconv.ParseFloat(amount, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid rainfall amount %q", line, amount)
		}
		obs = append(obs, NewObservation(date, mm))
	}

	if err := ValidateSeries(obs); err != nil {
		return nil, err
	}
	return obs, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD or DD/MM/YYYY)", s)
}
