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
	"time"

	"github.com/retailab/retail-insights/internal/txn"
)

// CohortMatrix is the month-indexed cohort retention result. A cohort is the
// set of customers whose first invoice falls in the same calendar month;
// CohortIndex 1 is that month itself. Cells with no transactions are absent,
// not zero.
type CohortMatrix struct {
	// Months lists cohort months in ascending order.
	Months []time.Time

	// Indexes lists every cohort index observed in any cohort, ascending.
	Indexes []int

	// Counts holds distinct-customer counts per (cohort month, index) cell.
	Counts map[time.Time]map[int]int

	// Retention holds each cell's count divided by the cohort's index-1 count.
	Retention map[time.Time]map[int]float64
}

// Cell returns the retention ratio for a cohort cell, and whether the cell
// has any transactions.
func (m *CohortMatrix) Cell(month time.Time, index int) (float64, bool) {
	row, ok := m.Retention[month]
	if !ok {
		return 0, false
	}
	r, ok := row[index]
	return r, ok
}

// BuildCohorts computes cohort membership and retention ratios. The cohort
// month is the customer's earliest year-month bucket; each transaction lands
// in cohort index 1 + months elapsed since that cohort month.
func BuildCohorts(table txn.Table) (*CohortMatrix, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	cohortMonth := make(map[string]time.Time)
	for _, row := range table {
		first, ok := cohortMonth[row.CustomerID]
		if !ok || row.YearMonth.Before(first) {
			cohortMonth[row.CustomerID] = row.YearMonth
		}
	}

	// Distinct customers per (cohort month, index) cell.
	members := make(map[time.Time]map[int]map[string]struct{})
	indexSeen := make(map[int]struct{})
	for _, row := range table {
		cohort := cohortMonth[row.CustomerID]
		index := cohortIndex(cohort, row.YearMonth)
		indexSeen[index] = struct{}{}

		byIndex := members[cohort]
		if byIndex == nil {
			byIndex = make(map[int]map[string]struct{})
			members[cohort] = byIndex
		}
		cell := byIndex[index]
		if cell == nil {
			cell = make(map[string]struct{})
			byIndex[index] = cell
		}
		cell[row.CustomerID] = struct{}{}
	}

	matrix := &CohortMatrix{
		Counts:    make(map[time.Time]map[int]int, len(members)),
		Retention: make(map[time.Time]map[int]float64, len(members)),
	}

	for month, byIndex := range members {
		matrix.Months = append(matrix.Months, month)
		counts := make(map[int]int, len(byIndex))
		for index, cell := range byIndex {
			counts[index] = len(cell)
		}
		matrix.Counts[month] = counts

		// The cohort month row itself always populates index 1.
		size := counts[1]
		retention := make(map[int]float64, len(counts))
		for index, count := range counts {
			retention[index] = float64(count) / float64(size)
		}
		matrix.Retention[month] = retention
	}

	sort.Slice(matrix.Months, func(a, b int) bool {
		return matrix.Months[a].Before(matrix.Months[b])
	})
	for index := range indexSeen {
		matrix.Indexes = append(matrix.Indexes, index)
	}
	sort.Ints(matrix.Indexes)

	return matrix, nil
}

// cohortIndex is 1 + calendar months elapsed from the cohort month to the
// transaction month.
func cohortIndex(cohort, month time.Time) int {
	years := month.Year() - cohort.Year()
	months := int(month.Month()) - int(cohort.Month())
	return years*12 + months + 1
}
