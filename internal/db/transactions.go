//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailab/retail-insights/internal/logging"
	"github.com/retailab/retail-insights/internal/txn"
)

const insertBatchSize = 1000

const transactionColumns = "(invoice_no, stock_code, description, quantity, invoice_date, unit_price, customer_id, country)"

const timestampLayout = "2006-01-02 15:04:05"

// InsertTransactions writes a raw transaction log into the transactions
// table in batches.
func InsertTransactions(ctx context.Context, pool *pgxpool.Pool, records []txn.RawRecord) error {
	batch := make([]string, 0, insertBatchSize)

	inserted := 0
	for _, r := range records {
		batch = append(batch, fmt.Sprintf("('%s', '%s', '%s', %d, '%s', %.2f, '%s', '%s')",
			escapeSingleQuote(r.InvoiceNo),
			escapeSingleQuote(r.StockCode),
			escapeSingleQuote(r.Description),
			r.Quantity,
			r.InvoiceDate.Format(timestampLayout),
			r.UnitPrice,
			escapeSingleQuote(r.CustomerID),
			escapeSingleQuote(r.Country),
		))

		if len(batch) >= insertBatchSize {
			if err := executeBatchInsert(ctx, pool, "transactions", transactionColumns, batch); err != nil {
				return err
			}
			inserted += len(batch)
			batch = batch[:0]
		}
	}

	if len(batch) > 0 {
		if err := executeBatchInsert(ctx, pool, "transactions", transactionColumns, batch); err != nil {
			return err
		}
		inserted += len(batch)
	}

	logging.Info().Int("rows", inserted).Msg("Transactions inserted")
	return nil
}

// LoadTransactions reads the full transaction log from the database and
// returns the cleaned table, invoice-date order.
func LoadTransactions(ctx context.Context, pool *pgxpool.Pool) (txn.Table, error) {
	rows, err := pool.Query(ctx, `
        SELECT invoice_no, stock_code, description, quantity, invoice_date,
               unit_price, customer_id, country
        FROM transactions
        ORDER BY invoice_date, id
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var raws []txn.RawRecord
	for rows.Next() {
		var r txn.RawRecord
		if err := rows.Scan(&r.InvoiceNo, &r.StockCode, &r.Description,
			&r.Quantity, &r.InvoiceDate, &r.UnitPrice, &r.CustomerID, &r.Country); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		raws = append(raws, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	table := txn.Clean(raws)

	logging.Info().
		Int("raw_rows", len(raws)).
		Int("rows", len(table)).
		Msg("Transactions loaded")

	return table, nil
}

// CountTransactions returns the number of rows in the transactions table.
func CountTransactions(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var count int64
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	return count, err
}

// CountTransactionsConn returns the number of rows in the transactions table
// using a single connection.
func CountTransactionsConn(ctx context.Context, conn *pgx.Conn) (int64, error) {
	var count int64
	err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count)
	return count, err
}

func executeBatchInsert(ctx context.Context, pool *pgxpool.Pool, table, columns string, values []string) error {
	if len(values) == 0 {
		return nil
	}
	sql := fmt.Sprintf("INSERT INTO %s %s VALUES %s", table, columns, strings.Join(values, ", "))
	_, err := pool.Exec(ctx, sql)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func escapeSingleQuote(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
