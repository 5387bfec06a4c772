//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package analytics

import (
	"time"

	"github.com/retailab/retail-insights/internal/txn"
)

// CLVRecord is the per-customer lifetime value estimate:
// CLV = AOV x purchase frequency x lifespan. Only customers with CLV > 0
// are retained.
type CLVRecord struct {
	CustomerID        string
	AOV               float64 // lifetime revenue / distinct invoices
	PurchaseFrequency int     // distinct non-cancelled invoices
	Lifespan          float64 // months between first and last invoice, fractional
	CLV               float64
}

// daysPerMonth converts the first-to-last invoice span into months.
const daysPerMonth = 30

// BuildCLV computes the customer lifetime value table. A customer whose
// invoices are all cancellations has purchase frequency 0, which forces
// CLV = 0 and drops the record; that is intended, not a guard failure.
func BuildCLV(table txn.Table) ([]CLVRecord, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	type span struct {
		first, last time.Time
	}
	revenue := make(map[string]float64)
	allInvoices := make(map[string]map[string]struct{})
	keptInvoices := make(map[string]map[string]struct{})
	spans := make(map[string]span)
	var order []string

	for _, row := range table {
		id := row.CustomerID
		if _, seen := revenue[id]; !seen {
			order = append(order, id)
			spans[id] = span{first: row.InvoiceDate, last: row.InvoiceDate}
			allInvoices[id] = make(map[string]struct{})
			keptInvoices[id] = make(map[string]struct{})
		}
		revenue[id] += row.TotalRevenue
		allInvoices[id][row.InvoiceNo] = struct{}{}
		if !row.Cancelled {
			keptInvoices[id][row.InvoiceNo] = struct{}{}
		}
		s := spans[id]
		if row.InvoiceDate.Before(s.first) {
			s.first = row.InvoiceDate
		}
		if row.InvoiceDate.After(s.last) {
			s.last = row.InvoiceDate
		}
		spans[id] = s
	}

	records := make([]CLVRecord, 0, len(order))
	for _, id := range order {
		// Every row carries an invoice id, so the AOV denominator is >= 1.
		aov := revenue[id] / float64(len(allInvoices[id]))
		frequency := len(keptInvoices[id])
		s := spans[id]
		lifespan := (float64(wholeDays(s.last.Sub(s.first))) + 1) / daysPerMonth
		clv := aov * float64(frequency) * lifespan
		if clv <= 0 {
			continue
		}
		records = append(records, CLVRecord{
			CustomerID:        id,
			AOV:               aov,
			PurchaseFrequency: frequency,
			Lifespan:          lifespan,
			CLV:               clv,
		})
	}
	return records, nil
}
