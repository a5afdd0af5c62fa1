package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bill-mca/dry-spell/internal/analysis"
	"github.com/bill-mca/dry-spell/internal/config"
	"github.com/bill-mca/dry-spell/internal/dryspell"
	"github.com/bill-mca/dry-spell/internal/report"
	"github.com/bill-mca/dry-spell/internal/sizing"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <rainfall.csv>",
	Short: "Run the full analysis: dry spells, tank sizing, and size comparison",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	addCatchmentFlags(analyzeCmd)
	rootCmd.AddCommand(analyzeCmd)

	// Make analyze the default command.
	rootCmd.Args = cobra.ArbitraryArgs
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return cmd.Help()
		}
		return runAnalyze(cmd, args)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	setupLogging()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyCatchmentOverrides(cfg)

	obs, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	out := os.Stdout

	report.DrySpells(out, dryspell.Detect(obs, cfg.DrySpells.DryDayThresholdMM))
	fmt.Fprintln(out)

	searcher := newSearcher(cfg)
	params := sizingParams(cfg)
	result, err := searcher.FindMinimumTank(obs, params, cfg.Sizing.TargetConfidence)
	if err != nil {
		return fmt.Errorf("sizing: %w", err)
	}
	var sweep []sizing.SweepEntry
	if !result.ReachedLimit {
		sweep, err = searcher.CompareSmallerTanks(obs, params, result.RecommendedL)
		if err != nil {
			return fmt.Errorf("sweeping smaller tanks: %w", err)
		}
	}
	report.Sizing(out, result, cfg.Sizing.TargetConfidence, sweep)
	fmt.Fprintln(out)

	analyzer := analysis.NewAnalyzer(nil, slog.Default())
	comparison, err := analyzer.Compare(obs, analysisParams(cfg))
	if err != nil {
		return fmt.Errorf("comparing: %w", err)
	}
	report.Comparison(out, comparison)

	return nil
}
