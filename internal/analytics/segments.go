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
	"fmt"
	"sort"
)

// SegmentRule maps a range of R and F scores to a segment label.
// Rules are evaluated in order; the first match wins.
type SegmentRule struct {
	RLow, RHigh int
	FLow, FHigh int
	Label       string
}

// Matches reports whether the rule covers the given R and F scores.
func (r SegmentRule) Matches(rScore, fScore int) bool {
	return rScore >= r.RLow && rScore <= r.RHigh &&
		fScore >= r.FLow && fScore <= r.FHigh
}

// SegmentRules is the ordered segment rule table. A score pair matching no
// rule keeps its raw two-digit key as the label; that pass-through is an
// explicit fallback, not an error.
var SegmentRules = []SegmentRule{
	{1, 2, 1, 2, "Lost"},
	{1, 2, 3, 4, "At risk"},
	{1, 2, 5, 5, "Can't lose"},
	{3, 3, 1, 2, "About to sleep"},
	{3, 3, 3, 3, "Need attention"},
	{4, 4, 1, 1, "Promising"},
	{3, 4, 4, 5, "Loyal customer"},
	{5, 5, 1, 1, "New customers"},
	{4, 5, 2, 3, "Potential Loyalist"},
	{5, 5, 4, 5, "Champion"},
}

// SegmentLabel resolves R and F scores against the rule table.
func SegmentLabel(rScore, fScore int) string {
	for _, rule := range SegmentRules {
		if rule.Matches(rScore, fScore) {
			return rule.Label
		}
	}
	return fmt.Sprintf("%d%d", rScore, fScore)
}

// SegmentSummary is the per-segment rollup of the RFM table.
type SegmentSummary struct {
	Segment        string
	TotalRevenue   float64
	TotalCustomers int
	CustomerPct    float64 // fraction of all RFM customers (0-1)
	RevenuePct     float64 // fraction of total RFM monetary value (0-1)
}

// SummarizeSegments rolls the RFM table up to per-segment totals and
// percentages, sorted by total revenue descending. The RFM engine must have
// produced output first; a nil input is a precondition violation.
func SummarizeSegments(rfm []RFMRecord) ([]SegmentSummary, error) {
	if rfm == nil {
		return nil, &NotReadyError{Operation: "segment aggregation", Requires: "RFM engine"}
	}

	revenue := make(map[string]float64)
	customers := make(map[string]int)
	var order []string
	for _, rec := range rfm {
		if _, seen := revenue[rec.Segment]; !seen {
			order = append(order, rec.Segment)
		}
		revenue[rec.Segment] += rec.Monetary
		customers[rec.Segment]++
	}
	sort.Strings(order)

	var grandRevenue float64
	for _, label := range order {
		grandRevenue += revenue[label]
	}
	totalCustomers := len(rfm)

	summaries := make([]SegmentSummary, 0, len(order))
	for _, label := range order {
		s := SegmentSummary{
			Segment:        label,
			TotalRevenue:   revenue[label],
			TotalCustomers: customers[label],
		}
		if totalCustomers > 0 {
			s.CustomerPct = float64(s.TotalCustomers) / float64(totalCustomers)
		}
		if grandRevenue > 0 {
			s.RevenuePct = s.TotalRevenue / grandRevenue
		}
		summaries = append(summaries, s)
	}

	sort.SliceStable(summaries, func(a, b int) bool {
		return summaries[a].TotalRevenue > summaries[b].TotalRevenue
	})

	return summaries, nil
}
