//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package txn defines the cleaned transaction table that all analytical
// engines consume, and the loaders that produce it from raw transaction logs.
package txn

import (
	"fmt"
	"math"
	"time"
)

// Transaction is one cleaned row of the transaction log.
type Transaction struct {
	CustomerID   string
	InvoiceNo    string
	StockCode    string
	Description  string
	Quantity     int
	InvoiceDate  time.Time
	YearMonth    time.Time // first day of the invoice month
	UnitPrice    float64
	TotalRevenue float64 // Quantity * UnitPrice; negative for returns
	Cancelled    bool    // invoice number carries the cancellation marker
	Country      string
}

// Table is the cleaned transaction table. Engines receive it by read-only
// reference and never mutate it.
type Table []Transaction

// SchemaError reports a violation of the cleaned-table input contract:
// a required column is missing or carries the wrong semantic type.
type SchemaError struct {
	Column string
	Reason string
	Row    int // -1 when the error is not tied to a single row
}

func (e *SchemaError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("schema error: column %s at row %d: %s", e.Column, e.Row, e.Reason)
	}
	return fmt.Sprintf("schema error: column %s: %s", e.Column, e.Reason)
}

// revenueTolerance bounds float drift between TotalRevenue and Quantity*UnitPrice.
const revenueTolerance = 1e-6

// Validate checks the cleaned-table contract: every row must carry a customer
// id, an invoice id, a parsed invoice date, a month-aligned year-month bucket,
// and a total revenue consistent with quantity and unit price. The first
// violation is returned as a *SchemaError.
func (t Table) Validate() error {
	for i, row := range t {
		if row.CustomerID == "" {
			return &SchemaError{Column: "CustomerID", Reason: "empty value", Row: i}
		}
		if row.InvoiceNo == "" {
			return &SchemaError{Column: "InvoiceNo", Reason: "empty value", Row: i}
		}
		if row.InvoiceDate.IsZero() {
			return &SchemaError{Column: "InvoiceDate", Reason: "missing date-time value", Row: i}
		}
		if row.YearMonth.IsZero() {
			return &SchemaError{Column: "YearMonth", Reason: "missing year-month bucket", Row: i}
		}
		if !monthAligned(row.YearMonth) {
			return &SchemaError{Column: "YearMonth", Reason: "not aligned to first of month", Row: i}
		}
		want := float64(row.Quantity) * row.UnitPrice
		if math.Abs(row.TotalRevenue-want) > revenueTolerance {
			return &SchemaError{
				Column: "TotalRevenue",
				Reason: fmt.Sprintf("expected %.6f (quantity x unit price), got %.6f", want, row.TotalRevenue),
				Row:    i,
			}
		}
	}
	return nil
}

func monthAligned(t time.Time) bool {
	return t.Day() == 1 && t.Hour() == 0 && t.Minute() == 0 &&
		t.Second() == 0 && t.Nanosecond() == 0
}

// MonthOf truncates a timestamp to the first instant of its calendar month.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
