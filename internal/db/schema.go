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

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema SQL for the raw transaction log. One row per invoice line, the
// shape the CSV loader expects.
const createSchemaSQL = `
CREATE TABLE IF NOT EXISTS transactions (
    id           BIGSERIAL PRIMARY KEY,
    invoice_no   VARCHAR(16) NOT NULL,
    stock_code   VARCHAR(16) NOT NULL,
    description  VARCHAR(200),
    quantity     INTEGER NOT NULL,
    invoice_date TIMESTAMP NOT NULL,
    unit_price   NUMERIC(10,2) NOT NULL,
    customer_id  VARCHAR(16) NOT NULL,
    country      VARCHAR(60) NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_customer ON transactions(customer_id);
CREATE INDEX IF NOT EXISTS idx_transactions_invoice ON transactions(invoice_no);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(invoice_date);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS transactions CASCADE;
`

// CreateSchema creates the transactions table and its indexes.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the transactions table.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, dropSchemaSQL)
	return err
}

// SchemaExists checks if the transactions table exists.
func SchemaExists(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = 'transactions'
        )
    `).Scan(&exists)
	return exists, err
}
