package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bill-mca/dry-spell/internal/config"
	"github.com/bill-mca/dry-spell/internal/dryspell"
	"github.com/bill-mca/dry-spell/internal/report"
)

var dryThresholdMM float64

var drySpellsCmd = &cobra.Command{
	Use:   "dry-spells <rainfall.csv>",
	Short: "Report the distribution of dry spells in a rainfall record",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrySpells,
}

func init() {
	drySpellsCmd.Flags().Float64Var(&dryThresholdMM, "threshold", 0, "daily rainfall in mm below which a day is dry (overrides config)")
	rootCmd.AddCommand(drySpellsCmd)
}

func runDrySpells(cmd *cobra.Command, args []string) error {
	setupLogging()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	threshold := cfg.DrySpells.DryDayThresholdMM
	if dryThresholdMM > 0 {
		threshold = dryThresholdMM
	}

	obs, err := loadSeries(args[0])
	if err != nil {
		return err
	}

	report.DrySpells(os.Stdout, dryspell.Detect(obs, threshold))
	return nil
}
