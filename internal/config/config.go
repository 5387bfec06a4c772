//-------------------------------------------------------------------------
//
// Retail Insights
//
// Portions copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for retail-insights.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for retail-insights.
type Config struct {
	// CSV is the path to a raw transaction log in CSV format.
	CSV string `mapstructure:"csv"`

	// Connection is the PostgreSQL connection string. When set, transactions
	// are read from (or generated into) the transactions table instead of a CSV file.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Analyze holds configuration for the analyze subcommand.
	Analyze AnalyzeConfig `mapstructure:"analyze"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`
}

// AnalyzeConfig holds configuration for report generation.
type AnalyzeConfig struct {
	// OutputDir is the directory report CSV files are written to.
	OutputDir string `mapstructure:"output_dir"`

	// Charts enables HTML chart rendering (Pareto curve, retention heatmap).
	Charts bool `mapstructure:"charts"`
}

// InitConfig holds configuration for synthetic data generation.
type InitConfig struct {
	// Customers is the number of distinct customers to generate.
	Customers int `mapstructure:"customers"`

	// Months is the span of the generated transaction log in calendar months.
	Months int `mapstructure:"months"`

	// Seed makes generation reproducible (0 = random seed).
	Seed uint64 `mapstructure:"seed"`

	// CancellationRate is the fraction of invoices that get cancelled (0-1).
	CancellationRate float64 `mapstructure:"cancellation_rate"`

	// DropExisting drops an existing transactions table before initialization.
	DropExisting bool `mapstructure:"drop_existing"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Analyze: AnalyzeConfig{
			OutputDir: "reports",
			Charts:    false,
		},
		Init: InitConfig{
			Customers:        2000,
			Months:           12,
			Seed:             0,
			CancellationRate: 0.05,
			DropExisting:     false,
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./retail-insights.yaml
// 3. ~/.config/retail-insights/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set config name and type
	v.SetConfigName("retail-insights")
	v.SetConfigType("yaml")

	// Add config paths
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "retail-insights"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	// Unmarshal config file values
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// ValidateAnalyze checks configuration required for the analyze command.
// Exactly one transaction source (CSV file or PostgreSQL connection) must be set.
func (c *Config) ValidateAnalyze() error {
	if c.CSV == "" && c.Connection == "" {
		return fmt.Errorf("a transaction source is required: set csv or connection")
	}
	if c.CSV != "" && c.Connection != "" {
		return fmt.Errorf("csv and connection are mutually exclusive; set only one")
	}
	if c.Analyze.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

// ValidateStatus checks configuration required for the status command.
func (c *Config) ValidateStatus() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required for status")
	}
	return nil
}

// ValidateInit checks configuration required for the init command.
func (c *Config) ValidateInit() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required for init")
	}
	if c.Init.Customers < 1 {
		return fmt.Errorf("customers must be at least 1")
	}
	if c.Init.Months < 1 {
		return fmt.Errorf("months must be at least 1")
	}
	if c.Init.CancellationRate < 0 || c.Init.CancellationRate >= 1 {
		return fmt.Errorf("cancellation_rate must be in [0, 1)")
	}
	return nil
}
