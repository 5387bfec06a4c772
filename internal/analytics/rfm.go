//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package analytics implements the customer-analytics engines: RFM scoring
// and segmentation, cohort retention, customer lifetime value, Pareto
// revenue concentration, and the per-segment rollup. All engines are pure
// functions of the cleaned transaction table.
package analytics

import (
	"fmt"
	"time"

	"github.com/retailab/retail-insights/internal/txn"
)

// RFMRecord is the per-customer recency/frequency/monetary scoring result.
// Only customers with positive lifetime monetary value appear.
type RFMRecord struct {
	CustomerID string
	Recency    int     // whole days between the snapshot date and the last invoice
	Frequency  int     // distinct non-cancelled invoices
	Monetary   float64 // lifetime revenue including cancellations
	RScore     int
	FScore     int
	MScore     int
	RFMScore   string // "RFM" digit string
	Segment    string
}

// rfmBase holds per-customer aggregates before scoring.
type rfmBase struct {
	customerID string
	recency    int
	frequency  int
	monetary   float64
}

// BuildRFM computes the RFM table: per-customer recency, monetary value and
// distinct non-cancelled invoice frequency, 1-5 quantile scores for each, and
// the segment label from the rule table.
func BuildRFM(table txn.Table) ([]RFMRecord, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	base := buildRFMBase(table)

	recency := make([]float64, len(base))
	frequency := make([]float64, len(base))
	monetary := make([]float64, len(base))
	for i, b := range base {
		recency[i] = float64(b.recency)
		frequency[i] = float64(b.frequency)
		monetary[i] = float64(b.monetary)
	}

	// Recency is inverted: the most recent bin scores 5.
	rLabels, err := quantileLabels("Recency", recency, scoreBins)
	if err != nil {
		return nil, err
	}
	rLabels = invertLabels(rLabels, scoreBins)

	fLabels, err := quantileLabels("Frequency", frequency, scoreBins)
	if err != nil {
		return nil, err
	}
	mLabels, err := quantileLabels("Monetary", monetary, scoreBins)
	if err != nil {
		return nil, err
	}

	records := make([]RFMRecord, len(base))
	for i, b := range base {
		r, f, m := rLabels[i], fLabels[i], mLabels[i]
		records[i] = RFMRecord{
			CustomerID: b.customerID,
			Recency:    b.recency,
			Frequency:  b.frequency,
			Monetary:   b.monetary,
			RScore:     r,
			FScore:     f,
			MScore:     m,
			RFMScore:   fmt.Sprintf("%d%d%d", r, f, m),
			Segment:    SegmentLabel(r, f),
		}
	}
	return records, nil
}

// buildRFMBase aggregates the table per customer. Recency and monetary value
// cover all rows (cancellations legitimately reduce monetary value); frequency
// counts distinct non-cancelled invoices. Customers with no non-cancelled
// invoice or with monetary value <= 0 are dropped. Customer order is
// first-seen order, which also fixes the stable rank used for frequency ties.
func buildRFMBase(table txn.Table) []rfmBase {
	snapshot := snapshotDate(table)

	lastInvoice := make(map[string]time.Time)
	monetary := make(map[string]float64)
	invoices := make(map[string]map[string]struct{})
	var order []string

	for _, row := range table {
		if _, seen := monetary[row.CustomerID]; !seen {
			order = append(order, row.CustomerID)
		}
		monetary[row.CustomerID] += row.TotalRevenue
		if row.InvoiceDate.After(lastInvoice[row.CustomerID]) {
			lastInvoice[row.CustomerID] = row.InvoiceDate
		}
		if !row.Cancelled {
			set := invoices[row.CustomerID]
			if set == nil {
				set = make(map[string]struct{})
				invoices[row.CustomerID] = set
			}
			set[row.InvoiceNo] = struct{}{}
		}
	}

	base := make([]rfmBase, 0, len(order))
	for _, id := range order {
		// Inner join with the frequency side: a customer with zero
		// non-cancelled invoices has no join key and is dropped.
		set, ok := invoices[id]
		if !ok {
			continue
		}
		if monetary[id] <= 0 {
			continue
		}
		base = append(base, rfmBase{
			customerID: id,
			recency:    wholeDays(snapshot.Sub(lastInvoice[id])),
			frequency:  len(set),
			monetary:   monetary[id],
		})
	}
	return base
}

// snapshotDate is the reference instant recency is measured against:
// the latest invoice date in the table plus one day.
func snapshotDate(table txn.Table) time.Time {
	var max time.Time
	for _, row := range table {
		if row.InvoiceDate.After(max) {
			max = row.InvoiceDate
		}
	}
	return max.AddDate(0, 0, 1)
}

func wholeDays(d time.Duration) int {
	return int(d.Hours() / 24)
}
