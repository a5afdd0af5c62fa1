package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the top-level configuration for dry-spell. Every field has a
// default, so an absent config file is fine.
type Config struct {
	LogFormat  string           `mapstructure:"log_format"`
	Catchment  CatchmentConfig  `mapstructure:"catchment"`
	Water      WaterConfig      `mapstructure:"water"`
	Sizing     SizingConfig     `mapstructure:"sizing"`
	Comparison ComparisonConfig `mapstructure:"comparison"`
	DrySpells  DrySpellConfig   `mapstructure:"dry_spells"`
}

// CatchmentConfig describes the roof and household the tank serves.
type CatchmentConfig struct {
	AreaM2            float64 `mapstructure:"area_m2"`
	DailyUsageL       float64 `mapstructure:"daily_usage_l"`
	RunoffCoefficient float64 `mapstructure:"runoff_coefficient"`
	StressFraction    float64 `mapstructure:"stress_fraction"`
}

// WaterConfig holds mains water pricing.
type WaterConfig struct {
	RatePerKL float64 `mapstructure:"rate_per_kl"`
}

// SizingConfig bounds the minimum-capacity search.
type SizingConfig struct {
	MinTankL         int     `mapstructure:"min_tank_l"`
	MaxTankL         int     `mapstructure:"max_tank_l"`
	StepL            int     `mapstructure:"step_l"`
	TargetConfidence float64 `mapstructure:"target_confidence"`
}

// ComparisonConfig lists the fixed candidate sizes for comparative
// analysis.
type ComparisonConfig struct {
	TankSizesL []int `mapstructure:"tank_sizes_l"`
}

// DrySpellConfig holds the two dry-spell thresholds.
type DrySpellConfig struct {
	DryDayThresholdMM     float64 `mapstructure:"dry_day_threshold_mm"`
	RunningAvgThresholdMM float64 `mapstructure:"running_avg_threshold_mm"`
}

// Load reads configuration from flag path, env vars, then default file paths.
// Precedence: flag → $DRYSPELL_CONFIG env → ~/.config/dry-spell/config.yaml → /etc/dry-spell/config.yaml
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Defaults
	v.SetDefault("log_format", "text")
	v.SetDefault("catchment.area_m2", 180.0)
	v.SetDefault("catchment.daily_usage_l", 500.0)
	v.SetDefault("catchment.runoff_coefficient", 0.85)
	v.SetDefault("catchment.stress_fraction", 0.20)
	v.SetDefault("water.rate_per_kl", 3.50)
	v.SetDefault("sizing.min_tank_l", 1000)
	v.SetDefault("sizing.max_tank_l", 100000)
	v.SetDefault("sizing.step_l", 500)
	v.SetDefault("sizing.target_confidence", 0.95)
	v.SetDefault("comparison.tank_sizes_l", []int{2000, 5000, 10000, 15000, 20000, 25000})
	v.SetDefault("dry_spells.dry_day_threshold_mm", 1.0)
	v.SetDefault("dry_spells.running_avg_threshold_mm", 2.0)

	// Env var support
	v.SetEnvPrefix("DRYSPELL")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else if envPath := os.Getenv("DRYSPELL_CONFIG"); envPath != "" {
		v.SetConfigFile(envPath)
	} else {
		// Try ~/.config/dry-spell/config.yaml first
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "dry-spell"))
		}
		// Fall back to /etc/dry-spell/config.yaml
		v.AddConfigPath("/etc/dry-spell")
		v.SetConfigName("config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is complete and correct.
func (c *Config) Validate() error {
	if c.Catchment.AreaM2 <= 0 {
		return fmt.Errorf("catchment.area_m2 must be positive, got %v", c.Catchment.AreaM2)
	}
	if c.Catchment.DailyUsageL <= 0 {
		return fmt.Errorf("catchment.daily_usage_l must be positive, got %v", c.Catchment.DailyUsageL)
	}
	if c.Catchment.RunoffCoefficient <= 0 || c.Catchment.RunoffCoefficient > 1 {
		return fmt.Errorf("catchment.runoff_coefficient must be in (0,1], got %v", c.Catchment.RunoffCoefficient)
	}
	if c.Catchment.StressFraction <= 0 || c.Catchment.StressFraction >= 1 {
		return fmt.Errorf("catchment.stress_fraction must be in (0,1), got %v", c.Catchment.StressFraction)
	}
	if c.Water.RatePerKL <= 0 {
		return fmt.Errorf("water.rate_per_kl must be positive, got %v", c.Water.RatePerKL)
	}

	s := c.Sizing
	if s.StepL <= 0 {
		return fmt.Errorf("sizing.step_l must be positive, got %d", s.StepL)
	}
	if s.MinTankL <= 0 || s.MaxTankL <= s.MinTankL {
		return fmt.Errorf("sizing domain [%d, %d] is not a valid range", s.MinTankL, s.MaxTankL)
	}
	if (s.MaxTankL-s.MinTankL)%s.StepL != 0 {
		return fmt.Errorf("sizing.step_l %d does not evenly divide domain [%d, %d]", s.StepL, s.MinTankL, s.MaxTankL)
	}
	if s.TargetConfidence <= 0 || s.TargetConfidence > 1 {
		return fmt.Errorf("sizing.target_confidence must be in (0,1], got %v", s.TargetConfidence)
	}

	if len(c.Comparison.TankSizesL) == 0 {
		return fmt.Errorf("comparison.tank_sizes_l must not be empty")
	}
	for _, size := range c.Comparison.TankSizesL {
		if size <= 0 {
			return fmt.Errorf("comparison.tank_sizes_l contains non-positive size %d", size)
		}
	}

	if c.DrySpells.DryDayThresholdMM <= 0 {
		return fmt.Errorf("dry_spells.dry_day_threshold_mm must be positive, got %v", c.DrySpells.DryDayThresholdMM)
	}
	if c.DrySpells.RunningAvgThresholdMM <= 0 {
		return fmt.Errorf("dry_spells.running_avg_threshold_mm must be positive, got %v", c.DrySpells.RunningAvgThresholdMM)
	}

	return nil
}
