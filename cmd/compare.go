package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bill-mca/dry-spell/internal/analysis"
	"github.com/bill-mca/dry-spell/internal/config"
	"github.com/bill-mca/dry-spell/internal/report"
)

var (
	compareSizes []int
	compareRate  float64
)

var compareCmd = &cobra.Command{
	Use:   "compare <rainfall.csv>",
	Short: "Compare savings and offset across fixed tank sizes",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().IntSliceVar(&compareSizes, "sizes", nil, "tank sizes in litres (overrides config)")
	compareCmd.Flags().Float64Var(&compareRate, "rate", 0, "mains water price in $/kL (overrides config)")
	addCatchmentFlags(compareCmd)
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	setupLogging()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyCatchmentOverrides(cfg)
	if len(compareSizes) > 0 {
		cfg.Comparison.TankSizesL = compareSizes
	}
	if compareRate > 0 {
		cfg.Water.RatePerKL = compareRate
	}

	obs, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer(nil, slog.Default())
	comparison, err := analyzer.Compare(obs, analysisParams(cfg))
	if err != nil {
		return fmt.Errorf("comparing: %w", err)
	}

	report.Comparison(os.Stdout, comparison)
	return nil
}

func analysisParams(cfg *config.Config) analysis.Params {
	return analysis.Params{
		AreaM2:         cfg.Catchment.AreaM2,
		DailyUsageL:    cfg.Catchment.DailyUsageL,
		RunoffCoeff:    cfg.Catchment.RunoffCoefficient,
		WaterRatePerKL: cfg.Water.RatePerKL,
		TankSizesL:     cfg.Comparison.TankSizesL,
	}
}
