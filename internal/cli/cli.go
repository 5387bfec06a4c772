//-------------------------------------------------------------------------
//
// Retail Insights
//
// Portions copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for retail-insights.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/retailab/retail-insights/internal/analytics"
	"github.com/retailab/retail-insights/internal/config"
	"github.com/retailab/retail-insights/internal/logging"
	"github.com/retailab/retail-insights/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	csvPath    string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "retail-insights",
		Short: "Customer analytics for retail transaction logs",
		Long: `retail-insights turns a raw retail transaction log into customer
analytics: RFM segmentation, cohort retention, customer lifetime value,
and revenue concentration (Pareto) reports.

The transaction log can come from a CSV export or a PostgreSQL database.
Reports are written as CSV files, optionally with interactive HTML charts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./retail-insights.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", "",
		"transaction log CSV file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(segmentsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if csvPath != "" {
		cfg.CSV = csvPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "List the RFM segment rules",
	Long: `List the recency/frequency score ranges that map customers to
named segments. Customers falling outside every range keep their raw
two-digit score as the segment label.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Segment rules (recency score, frequency score):")
		cmd.Println()
		for _, rule := range analytics.SegmentRules {
			cmd.Printf("  R %d-%d  F %d-%d  %s\n",
				rule.RLow, rule.RHigh, rule.FLow, rule.FHigh, rule.Label)
		}
		cmd.Println()
		cmd.Println("Scores run 1 (worst) to 5 (best) within each metric.")
	},
}
