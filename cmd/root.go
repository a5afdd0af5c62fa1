package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/bill-mca/dry-spell/internal/config"
	"github.com/bill-mca/dry-spell/internal/rainfall"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	cfgFile   string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "dry-spell",
	Short: "Size a rainwater tank against a historical daily-rainfall record",
	Long: `dry-spell simulates a rainwater tank day-by-day over a historical rainfall
record and derives sizing decisions from it: the smallest tank that meets a
reliability target, comparative savings across fixed tank sizes, and the
distribution of dry spells that drive worst-case behavior.

Rainfall records are two-column CSV files (date,rainfall_mm); a blank amount
marks a day with no recorded value.`,
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text or json)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging() {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	if logFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// loadSeries reads and validates the rainfall record named by the single
// positional argument every analysis command takes.
func loadSeries(path string) ([]rainfall.Observation, error) {
	obs, err := rainfall.ReadFile(path)
	if err != nil {
		return nil, err
	}
	first, last := rainfall.Span(obs)
	slog.Info("rainfall record loaded",
		"path", path,
		"days", len(obs),
		"missing", rainfall.MissingCount(obs),
		"from", first.Format("2006-01-02"),
		"to", last.Format("2006-01-02"),
	)
	return obs, nil
}

// Catchment flag overrides shared by the analysis commands. Zero means "use
// the config value".
var (
	flagAreaM2 float64
	flagUsageL float64
	flagRunoff float64
)

func addCatchmentFlags(c *cobra.Command) {
	c.Flags().Float64Var(&flagAreaM2, "area", 0, "catchment area in m2 (overrides config)")
	c.Flags().Float64Var(&flagUsageL, "usage", 0, "daily usage in litres (overrides config)")
	c.Flags().Float64Var(&flagRunoff, "runoff", 0, "runoff coefficient (overrides config)")
}

func applyCatchmentOverrides(cfg *config.Config) {
	if flagAreaM2 > 0 {
		cfg.Catchment.AreaM2 = flagAreaM2
	}
	if flagUsageL > 0 {
		cfg.Catchment.DailyUsageL = flagUsageL
	}
	if flagRunoff > 0 {
		cfg.Catchment.RunoffCoefficient = flagRunoff
	}
}
