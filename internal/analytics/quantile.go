//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package analytics

import "sort"

// scoreBins is the number of equal-population bins used for R/F/M scoring.
const scoreBins = 5

// quantileLabels bins values into equal-population groups and returns a
// 1-based label per input position, 1 for the smallest-value bin. Ties are
// broken by a stable rank in input order, so the split is deterministic even
// when many inputs share a value. Bin sizes differ by at most one.
//
// Fewer distinct values than bins cannot support an equal-population split
// and yields an *InsufficientDataError.
func quantileLabels(metric string, values []float64, bins int) ([]int, error) {
	n := len(values)

	distinct := make(map[float64]struct{}, n)
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	if len(distinct) < bins {
		return nil, &InsufficientDataError{Metric: metric, Distinct: len(distinct), Bins: bins}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	labels := make([]int, n)
	for rank, i := range order {
		labels[i] = rank*bins/n + 1
	}
	return labels, nil
}

// invertLabels flips ascending labels so the smallest-value bin gets the
// highest score. Used for recency, where more recent means a better score.
func invertLabels(labels []int, bins int) []int {
	inverted := make([]int, len(labels))
	for i, l := range labels {
		inverted[i] = bins + 1 - l
	}
	return inverted
}
