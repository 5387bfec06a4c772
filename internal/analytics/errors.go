//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package analytics

import "fmt"

// InsufficientDataError is returned when a metric has too few distinct values
// for equal-population quantile binning. Bins are never silently collapsed.
type InsufficientDataError struct {
	Metric   string
	Distinct int
	Bins     int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf(
		"insufficient data: %s has %d distinct values, %d required for quantile binning",
		e.Metric, e.Distinct, e.Bins,
	)
}

// NotReadyError is returned when an operation is invoked before the engine
// output it depends on has been produced.
type NotReadyError struct {
	Operation string
	Requires  string
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("%s invoked before %s produced output", e.Operation, e.Requires)
}
