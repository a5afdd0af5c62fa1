// Package report renders analysis results as plain text for the CLI.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/bill-mca/dry-spell/internal/analysis"
	"github.com/bill-mca/dry-spell/internal/dryspell"
	"github.com/bill-mca/dry-spell/internal/simulation"
	"github.com/bill-mca/dry-spell/internal/sizing"
)

const chartWidth = 72

func litres(v float64) string {
	return humanize.CommafWithDigits(v, 0) + " L"
}

func dollars(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

func dateRange(start, end time.Time) string {
	return start.Format("2 Jan 2006") + " to " + end.Format("2 Jan 2006")
}

// Simulation writes the summary, trouble periods, and a level trace for a
// single run.
func Simulation(w io.Writer, res *simulation.Result, tankSizeL float64) {
	s := res.Summary
	first, last := res.Daily[0].Date, res.Daily[len(res.Daily)-1].Date

	fmt.Fprintf(w, "Simulated %s tank over %s days (%s)\n",
		litres(tankSizeL), humanize.Comma(int64(s.TotalDays)), dateRange(first, last))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  Reliability:\t%.1f%% (%d days empty)\n", s.ReliabilityPct, s.DaysEmpty)
	fmt.Fprintf(tw, "  Days below stress level:\t%d (%.1f%%)\n", s.DaysBelowStress, s.StressPct)
	fmt.Fprintf(tw, "  Days below half full:\t%d\n", s.DaysBelowHalf)
	fmt.Fprintf(tw, "  Total overflow:\t%s\n", litres(s.TotalOverflowL))
	fmt.Fprintf(tw, "  Total deficit:\t%s\n", litres(s.TotalDeficitL))
	tw.Flush() //nolint:errcheck

	if len(res.EmptyPeriods) > 0 {
		fmt.Fprintf(w, "\nEmpty periods (%d):\n", len(res.EmptyPeriods))
		for _, p := range res.EmptyPeriods {
			fmt.Fprintf(w, "  %s (%d days)\n", dateRange(p.Start, p.End), p.Days)
		}
	}
	if res.WorstDrySpell != nil {
		p := res.WorstDrySpell
		fmt.Fprintf(w, "\nWorst dry spell: %d days, %s (%.1f mm total rain)\n",
			p.Days, dateRange(p.Start, p.End), p.TotalRainMM)
	}

	fmt.Fprintf(w, "\nTank level (L):\n%s\n", LevelChart(res, chartWidth, 10))
}

// LevelChart renders the daily level trace as an ASCII line chart,
// averaging days into buckets when the record is wider than the chart.
func LevelChart(res *simulation.Result, width, height int) string {
	series := make([]float64, len(res.Daily))
	for i, d := range res.Daily {
		series[i] = d.LevelL
	}
	if len(series) > width {
		series = downsample(series, width)
	}
	return asciigraph.Plot(series, asciigraph.Height(height))
}

func downsample(series []float64, buckets int) []float64 {
	out := make([]float64, buckets)
	per := float64(len(series)) / float64(buckets)
	for i := range out {
		lo := int(float64(i) * per)
		hi := int(float64(i+1) * per)
		if hi > len(series) {
			hi = len(series)
		}
		var sum float64
		for _, v := range series[lo:hi] {
			sum += v
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// Sizing writes the capacity search outcome and the smaller-tank sweep.
func Sizing(w io.Writer, r *sizing.Result, targetConfidence float64, sweep []sizing.SweepEntry) {
	if r.ReachedLimit {
		fmt.Fprintf(w, "No tank up to %s reaches %.0f%% reliability; the largest achieves %.1f%%.\n",
			litres(float64(r.RecommendedL)), targetConfidence*100, r.AchievedConfidence)
		return
	}

	fmt.Fprintf(w, "Recommended tank size: %s\n", litres(float64(r.RecommendedL)))
	fmt.Fprintf(w, "  Achieves %.1f%% reliability (target %.0f%%)\n", r.AchievedConfidence, targetConfidence*100)
	fmt.Fprintf(w, "  Exact minimum on the search grid: %s\n", litres(float64(r.ExactMinimumL)))

	if len(sweep) == 0 {
		return
	}
	fmt.Fprintf(w, "\nHow smaller tanks would have fared:\n")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  SIZE\tRELIABILITY\tOUTCOME")
	for _, e := range sweep {
		fmt.Fprintf(tw, "  %s\t%.1f%%\t%s\n", litres(float64(e.TankSizeL)), e.ReliabilityPct, e.FailureSummary)
	}
	tw.Flush() //nolint:errcheck
}

// Comparison writes the multi-capacity comparison table and the best-value
// pick.
func Comparison(w io.Writer, c *analysis.Comparison) {
	fmt.Fprintf(w, "Comparison across %d tank sizes (potential capture %s):\n",
		len(c.Entries), litres(c.TotalPotentialCaptureL))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  SIZE\tOFFSET\tRAINWATER USED\tMAINS NEEDED\tOVERFLOW\tCAPTURE EFF\tDAYS EMPTY\tANNUAL SAVINGS")
	for i, e := range c.Entries {
		marker := " "
		if i == c.BestValueIndex {
			marker = "*"
		}
		fmt.Fprintf(tw, " %s%s\t%.1f%%\t%s\t%s\t%.1f%%\t%.1f%%\t%d\t%s/yr\n",
			marker, litres(float64(e.TankSizeL)), e.PercentOffset,
			litres(e.RainwaterUsedL), litres(e.MainsNeededL),
			e.OverflowPct, e.CaptureEfficiency, e.DaysEmpty, dollars(e.AnnualSavings))
	}
	tw.Flush() //nolint:errcheck

	if c.BestValueIndex >= 0 {
		best := c.BestValue()
		fmt.Fprintf(w, "\n* Best value: %s (%.1f%% of demand met, %s/yr saved)\n",
			litres(float64(best.TankSizeL)), best.PercentOffset, dollars(best.AnnualSavings))
	}
}

// DrySpells writes the dry-run duration histogram and the longest run.
func DrySpells(w io.Writer, d dryspell.Distribution) {
	fmt.Fprintf(w, "Dry spells (days under %.1f mm): %d runs\n", d.ThresholdMM, len(d.Runs))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  DURATION\tCOUNT\tEXAMPLES")
	for _, b := range d.Bins {
		examples := make([]string, len(b.Examples))
		for i, e := range b.Examples {
			examples[i] = e.Format("2 Jan 2006")
		}
		fmt.Fprintf(tw, "  %s\t%d\t%s\n", b.Label, b.Count, strings.Join(examples, ", "))
	}
	tw.Flush() //nolint:errcheck

	if d.Longest != nil {
		fmt.Fprintf(w, "\nLongest: %d days, %s\n", d.Longest.Days, dateRange(d.Longest.Start, d.Longest.End))
	}
}
