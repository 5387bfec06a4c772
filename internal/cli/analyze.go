//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailab/retail-insights/internal/analytics"
	"github.com/retailab/retail-insights/internal/db"
	"github.com/retailab/retail-insights/internal/logging"
	"github.com/retailab/retail-insights/internal/report"
	"github.com/retailab/retail-insights/internal/txn"
)

var (
	analyzeOutputDir string
	analyzeCharts    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the analytics pipeline and write reports",
	Long: `Run the full analytics pipeline over a transaction log and write
the result tables as CSV reports: RFM scores and segments, the segment
rollup, cohort retention, customer lifetime value, and the customer and
country revenue concentration tables.

The log comes from --csv or from a PostgreSQL database via --connection;
exactly one source must be given.

Example:
  retail-insights analyze --csv transactions.csv --output-dir reports --charts`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOutputDir, "output-dir", "",
		"directory for report files (default: ./reports)")
	analyzeCmd.Flags().BoolVar(&analyzeCharts, "charts", false,
		"also render HTML charts")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if analyzeOutputDir != "" {
		cfg.Analyze.OutputDir = analyzeOutputDir
	}
	if analyzeCharts {
		cfg.Analyze.Charts = true
	}

	// Validate configuration
	if err := cfg.ValidateAnalyze(); err != nil {
		return err
	}

	ctx := context.Background()

	table, err := loadTable(ctx)
	if err != nil {
		return err
	}

	logging.Info().
		Int("rows", len(table)).
		Msg("Running analytics pipeline")

	results, err := analytics.NewAnalyzer(table).Run()
	if err != nil {
		return err
	}

	if err := report.WriteAll(cfg.Analyze.OutputDir, results); err != nil {
		return err
	}

	if cfg.Analyze.Charts {
		if err := report.WriteCharts(cfg.Analyze.OutputDir, results); err != nil {
			return err
		}
	}

	logging.Info().
		Str("output_dir", cfg.Analyze.OutputDir).
		Int("customers", len(results.RFM)).
		Int("segments", len(results.Segments)).
		Int("cohorts", len(results.Retention.Months)).
		Msg("Analysis complete")

	return nil
}

// loadTable reads the transaction log from whichever source is configured.
func loadTable(ctx context.Context) (txn.Table, error) {
	if cfg.CSV != "" {
		return txn.LoadCSV(cfg.CSV)
	}

	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Surface provenance when the log was generated by init
	if exists, err := db.MetadataExists(ctx, pool); err == nil && exists {
		if meta, err := db.GetAllMetadata(ctx, pool); err == nil {
			logging.Debug().
				Str("generated_at", meta["generated_at"]).
				Str("seed", meta["seed"]).
				Msg("Transaction log provenance")
		}
	}

	return db.LoadTransactions(ctx, pool)
}
