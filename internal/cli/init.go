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

	"github.com/retailab/retail-insights/internal/datagen"
	"github.com/retailab/retail-insights/internal/db"
	"github.com/retailab/retail-insights/internal/logging"
)

var (
	initCustomers        int
	initMonths           int
	initSeed             uint64
	initCancellationRate float64
	initDropExisting     bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a database with a synthetic transaction log",
	Long: `Initialize a PostgreSQL database with the transactions table and a
synthetic transaction log. The customers and months parameters control
the size and span of the generated log; a non-zero seed makes the log
reproducible.

Example:
  retail-insights init --customers 5000 --months 12 --connection "postgres://..."`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().IntVar(&initCustomers, "customers", 0,
		"number of customers to generate (default: 2000)")
	initCmd.Flags().IntVar(&initMonths, "months", 0,
		"span of the log in months (default: 12)")
	initCmd.Flags().Uint64Var(&initSeed, "seed", 0,
		"random seed for reproducible generation (0 = random)")
	initCmd.Flags().Float64Var(&initCancellationRate, "cancellation-rate", -1,
		"fraction of invoices later cancelled (default: 0.05)")
	initCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing transactions before initialization")
}

func runInit(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initCustomers > 0 {
		cfg.Init.Customers = initCustomers
	}
	if initMonths > 0 {
		cfg.Init.Months = initMonths
	}
	if initSeed != 0 {
		cfg.Init.Seed = initSeed
	}
	if initCancellationRate >= 0 {
		cfg.Init.CancellationRate = initCancellationRate
	}
	if initDropExisting {
		cfg.Init.DropExisting = true
	}

	// Validate configuration
	if err := cfg.ValidateInit(); err != nil {
		return err
	}

	logging.Info().
		Int("customers", cfg.Init.Customers).
		Int("months", cfg.Init.Months).
		Msg("Initializing database")

	// Connect to database
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Refuse to stack a new log on top of an old one
	exists, err := db.SchemaExists(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to inspect database: %w", err)
	}
	if exists {
		count, err := db.CountTransactions(ctx, pool)
		if err != nil {
			return fmt.Errorf("failed to inspect transactions: %w", err)
		}
		if count > 0 && !cfg.Init.DropExisting {
			return fmt.Errorf(
				"database already holds %d transactions; use --drop-existing to reinitialize",
				count)
		}
	}

	// Drop existing schema if requested
	if cfg.Init.DropExisting {
		logging.Info().Msg("Dropping existing schema")
		if err := db.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		hasMetadata, err := db.MetadataExists(ctx, pool)
		if err != nil {
			return fmt.Errorf("failed to inspect metadata: %w", err)
		}
		if hasMetadata {
			if err := db.DropMetadata(ctx, pool); err != nil {
				return fmt.Errorf("failed to drop metadata: %w", err)
			}
		}
	}

	// Create schema
	logging.Info().Msg("Creating schema")
	if err := db.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Generate data
	logging.Info().
		Uint64("seed", cfg.Init.Seed).
		Float64("cancellation_rate", cfg.Init.CancellationRate).
		Msg("Generating transaction log")

	records := datagen.NewTransactionGenerator(datagen.TransactionConfig{
		Customers:        cfg.Init.Customers,
		Months:           cfg.Init.Months,
		Seed:             cfg.Init.Seed,
		CancellationRate: cfg.Init.CancellationRate,
	}).Generate()

	if err := db.InsertTransactions(ctx, pool, records); err != nil {
		return fmt.Errorf("failed to insert transactions: %w", err)
	}

	// Save metadata
	if err := db.SaveMetadata(ctx, pool, len(records), cfg.Init.Seed); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().
		Int("rows", len(records)).
		Msg("Database initialization complete")

	return nil
}
