package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bill-mca/dry-spell/internal/config"
	"github.com/bill-mca/dry-spell/internal/report"
	"github.com/bill-mca/dry-spell/internal/simulation"
)

var (
	simTankL    float64
	simInitialL float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <rainfall.csv>",
	Short: "Simulate one tank size day-by-day over a rainfall record",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().Float64Var(&simTankL, "tank", 0, "tank size in litres")
	simulateCmd.Flags().Float64Var(&simInitialL, "initial-level", -1, "starting level in litres (default: half the tank)")
	addCatchmentFlags(simulateCmd)
	_ = simulateCmd.MarkFlagRequired("tank")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
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

	params := simulation.Params{
		TankSizeL:             simTankL,
		AreaM2:                cfg.Catchment.AreaM2,
		DailyUsageL:           cfg.Catchment.DailyUsageL,
		RunoffCoeff:           cfg.Catchment.RunoffCoefficient,
		StressFraction:        cfg.Catchment.StressFraction,
		WorstSpellThresholdMM: cfg.DrySpells.RunningAvgThresholdMM,
	}
	if simInitialL >= 0 {
		params.InitialLevelL = &simInitialL
	}

	res, err := simulation.Simulate(obs, params)
	if err != nil {
		return fmt.Errorf("simulating: %w", err)
	}

	report.Simulation(os.Stdout, res, simTankL)
	return nil
}
