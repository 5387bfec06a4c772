//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package report writes the analytics result tables as CSV reports and
// renders the Pareto and retention charts. Column names are part of the
// compatibility surface; downstream consumers key on them.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/retailab/retail-insights/internal/analytics"
	"github.com/retailab/retail-insights/internal/logging"
)

// Report file names inside the output directory.
const (
	RFMFile           = "rfm.csv"
	SegmentsFile      = "segments.csv"
	RetentionFile     = "retention.csv"
	CLVFile           = "clv.csv"
	ParetoFile        = "pareto_customers.csv"
	CountryParetoFile = "pareto_countries.csv"
)

// monthLayout formats cohort months in the retention report.
const monthLayout = "2006-01"

// WriteAll writes every result table into dir, creating it if needed.
func WriteAll(dir string, res *analytics.Results) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	writers := []struct {
		name  string
		write func(string) error
	}{
		{RFMFile, func(p string) error { return WriteRFM(p, res.RFM) }},
		{SegmentsFile, func(p string) error { return WriteSegments(p, res.Segments) }},
		{RetentionFile, func(p string) error { return WriteRetention(p, res.Retention) }},
		{CLVFile, func(p string) error { return WriteCLV(p, res.CLV) }},
		{ParetoFile, func(p string) error { return WritePareto(p, res.Pareto) }},
		{CountryParetoFile, func(p string) error { return WriteCountryPareto(p, res.CountryPareto) }},
	}

	for _, w := range writers {
		path := filepath.Join(dir, w.name)
		if err := w.write(path); err != nil {
			return err
		}
		logging.Debug().Str("path", path).Msg("Report written")
	}

	logging.Info().
		Str("dir", dir).
		Int("reports", len(writers)).
		Msg("Reports written")
	return nil
}

// WriteRFM writes the RFM table.
func WriteRFM(path string, records []analytics.RFMRecord) error {
	rows := [][]string{{
		"CustomerID", "Recency", "Frequency", "Monetary",
		"R_Score", "F_Score", "M_Score", "RFM_Score", "Segments",
	}}
	for _, r := range records {
		rows = append(rows, []string{
			r.CustomerID,
			strconv.Itoa(r.Recency),
			strconv.Itoa(r.Frequency),
			money(r.Monetary),
			strconv.Itoa(r.RScore),
			strconv.Itoa(r.FScore),
			strconv.Itoa(r.MScore),
			r.RFMScore,
			r.Segment,
		})
	}
	return writeCSV(path, rows)
}

// WriteSegments writes the per-segment rollup.
func WriteSegments(path string, records []analytics.SegmentSummary) error {
	rows := [][]string{{
		"Segment", "TotalRevenue", "TotalCustomers", "CustomerPct(%)", "RevenuePct(%)",
	}}
	for _, r := range records {
		rows = append(rows, []string{
			r.Segment,
			money(r.TotalRevenue),
			strconv.Itoa(r.TotalCustomers),
			fraction(r.CustomerPct),
			fraction(r.RevenuePct),
		})
	}
	return writeCSV(path, rows)
}

// WriteRetention writes the cohort retention matrix, one row per cohort
// month. Cells with no transactions are left blank.
func WriteRetention(path string, matrix *analytics.CohortMatrix) error {
	header := []string{"CohortMonth"}
	for _, index := range matrix.Indexes {
		header = append(header, strconv.Itoa(index))
	}
	rows := [][]string{header}

	for _, month := range matrix.Months {
		row := []string{month.Format(monthLayout)}
		for _, index := range matrix.Indexes {
			if r, ok := matrix.Cell(month, index); ok {
				row = append(row, fraction(r))
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return writeCSV(path, rows)
}

// WriteCLV writes the customer lifetime value table.
func WriteCLV(path string, records []analytics.CLVRecord) error {
	rows := [][]string{{
		"CustomerID", "AOV", "PurchaseFrequency", "Lifespan", "CLV",
	}}
	for _, r := range records {
		rows = append(rows, []string{
			r.CustomerID,
			money(r.AOV),
			strconv.Itoa(r.PurchaseFrequency),
			fraction(r.Lifespan),
			money(r.CLV),
		})
	}
	return writeCSV(path, rows)
}

// WritePareto writes the customer-level revenue concentration curve.
func WritePareto(path string, records []analytics.ParetoRecord) error {
	rows := [][]string{{
		"CustomerID", "TotalRevenue", "CumRevenue", "CumRevenuePct", "CumCustomerPct",
	}}
	for _, r := range records {
		rows = append(rows, []string{
			r.CustomerID,
			money(r.TotalRevenue),
			money(r.CumRevenue),
			fraction(r.CumRevenuePct),
			fraction(r.CumCustomerPct),
		})
	}
	return writeCSV(path, rows)
}

// WriteCountryPareto writes the country-level concentration table.
func WriteCountryPareto(path string, records []analytics.CountryPareto) error {
	rows := [][]string{{
		"Country", "TotalCustomers", "TotalRevenue", "CustomerPercent(%)", "RevenuePercent(%)",
	}}
	for _, r := range records {
		rows = append(rows, []string{
			r.Country,
			strconv.Itoa(r.TotalCustomers),
			money(r.TotalRevenue),
			fraction(r.CustomerPercent),
			fraction(r.RevenuePercent),
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func fraction(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
