package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bill-mca/dry-spell/internal/config"
	"github.com/bill-mca/dry-spell/internal/report"
	"github.com/bill-mca/dry-spell/internal/sizing"
)

var sizeTarget float64

var sizeCmd = &cobra.Command{
	Use:   "size <rainfall.csv>",
	Short: "Find the smallest tank that meets a reliability target",
	Args:  cobra.ExactArgs(1),
	RunE:  runSize,
}

func init() {
	sizeCmd.Flags().Float64Var(&sizeTarget, "target", 0, "reliability target as a fraction in (0,1] (overrides config)")
	addCatchmentFlags(sizeCmd)
	rootCmd.AddCommand(sizeCmd)
}

func runSize(cmd *cobra.Command, args []string) error {
	setupLogging()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyCatchmentOverrides(cfg)

	target := cfg.Sizing.TargetConfidence
	if sizeTarget != 0 {
		target = sizeTarget
	}

	obs, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	searcher := newSearcher(cfg)
	params := sizingParams(cfg)

	result, err := searcher.FindMinimumTank(obs, params, target)
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

	report.Sizing(os.Stdout, result, target, sweep)
	return nil
}

func newSearcher(cfg *config.Config) *sizing.Searcher {
	return sizing.NewSearcher(sizing.Domain{
		MinTankL:        cfg.Sizing.MinTankL,
		MaxTankL:        cfg.Sizing.MaxTankL,
		StepL:           cfg.Sizing.StepL,
		PracticalRoundL: sizing.DefaultDomain.PracticalRoundL,
	}, slog.Default())
}

func sizingParams(cfg *config.Config) sizing.Params {
	return sizing.Params{
		AreaM2:      cfg.Catchment.AreaM2,
		DailyUsageL: cfg.Catchment.DailyUsageL,
		RunoffCoeff: cfg.Catchment.RunoffCoefficient,
	}
}
