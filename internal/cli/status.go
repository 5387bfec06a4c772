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

	"github.com/retailab/retail-insights/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored transaction log and its provenance",
	Long: `Show the row count of the stored transaction log and the provenance
recorded by init (version, generation time, row count, seed).

Example:
  retail-insights status --connection "postgres://..."`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	// Validate configuration
	if err := cfg.ValidateStatus(); err != nil {
		return err
	}

	// A one-shot read; a single connection is enough
	ctx := context.Background()
	conn, err := db.ConnectSingle(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer conn.Close(ctx)

	count, err := db.CountTransactionsConn(ctx, conn)
	if err != nil {
		return fmt.Errorf("no transaction log found; run init first: %w", err)
	}

	cmd.Printf("Transactions: %d\n", count)

	for _, key := range []string{"version", "generated_at", "rows", "seed"} {
		value, err := db.GetMetadataValueConn(ctx, conn, key)
		if err != nil {
			// No metadata table means the log was not generated by init
			cmd.Println("No provenance metadata recorded")
			return nil
		}
		cmd.Printf("%-12s  %s\n", key, value)
	}

	return nil
}
