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
	"sort"

	"github.com/retailab/retail-insights/internal/txn"
)

// ParetoRecord is one row of the revenue concentration curve: customers
// sorted by lifetime revenue descending with cumulative distributions
// attached. Only customers with positive revenue appear.
type ParetoRecord struct {
	CustomerID     string
	TotalRevenue   float64
	CumRevenue     float64
	CumRevenuePct  float64 // cumulative revenue / grand total (0-1)
	CumCustomerPct float64 // rank / customer count (0-1)
}

// CountryPareto is the country-level concentration variant. Customer counts
// come from all rows while revenue covers non-cancelled rows only; the
// asymmetry matches the upstream report definition (see DESIGN.md).
type CountryPareto struct {
	Country         string
	TotalCustomers  int
	TotalRevenue    float64
	CustomerPercent float64 // percent of total customer rows (0-100)
	RevenuePercent  float64 // percent of total revenue (0-100)
}

// BuildPareto ranks customers by lifetime revenue and computes the cumulative
// revenue and customer distributions. Ties keep ascending customer-id order
// under the stable descending sort.
func BuildPareto(table txn.Table) ([]ParetoRecord, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	revenue := make(map[string]float64)
	for _, row := range table {
		revenue[row.CustomerID] += row.TotalRevenue
	}

	ids := make([]string, 0, len(revenue))
	for id, total := range revenue {
		if total > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	sort.SliceStable(ids, func(a, b int) bool {
		return revenue[ids[a]] > revenue[ids[b]]
	})

	var grandTotal float64
	for _, id := range ids {
		grandTotal += revenue[id]
	}

	records := make([]ParetoRecord, len(ids))
	var cum float64
	for i, id := range ids {
		cum += revenue[id]
		records[i] = ParetoRecord{
			CustomerID:     id,
			TotalRevenue:   revenue[id],
			CumRevenue:     cum,
			CumRevenuePct:  cum / grandTotal,
			CumCustomerPct: float64(i+1) / float64(len(ids)),
		}
	}
	return records, nil
}

// BuildCountryPareto aggregates the concentration analysis by country.
// Countries with no non-cancelled revenue drop out of the inner join, and
// both percentage columns are computed over the joined set on a 0-100 scale.
func BuildCountryPareto(table txn.Table) ([]CountryPareto, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	customerRows := make(map[string]int)
	revenue := make(map[string]float64)
	hasRevenue := make(map[string]bool)
	for _, row := range table {
		customerRows[row.Country]++
		if !row.Cancelled {
			revenue[row.Country] += row.TotalRevenue
			hasRevenue[row.Country] = true
		}
	}

	countries := make([]string, 0, len(customerRows))
	for country := range customerRows {
		if hasRevenue[country] {
			countries = append(countries, country)
		}
	}
	sort.Strings(countries)
	sort.SliceStable(countries, func(a, b int) bool {
		return customerRows[countries[a]] > customerRows[countries[b]]
	})

	var totalCustomers int
	var totalRevenue float64
	for _, country := range countries {
		totalCustomers += customerRows[country]
		totalRevenue += revenue[country]
	}

	records := make([]CountryPareto, len(countries))
	for i, country := range countries {
		records[i] = CountryPareto{
			Country:        country,
			TotalCustomers: customerRows[country],
			TotalRevenue:   revenue[country],
		}
		if totalCustomers > 0 {
			records[i].CustomerPercent = float64(customerRows[country]) / float64(totalCustomers) * 100
		}
		if totalRevenue != 0 {
			records[i].RevenuePercent = revenue[country] / totalRevenue * 100
		}
	}
	return records, nil
}
