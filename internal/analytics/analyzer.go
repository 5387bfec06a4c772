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
	"github.com/retailab/retail-insights/internal/logging"
	"github.com/retailab/retail-insights/internal/txn"
)

// Results bundles the output tables of a full analytics run.
type Results struct {
	RFM           []RFMRecord
	Segments      []SegmentSummary
	Retention     *CohortMatrix
	CLV           []CLVRecord
	Pareto        []ParetoRecord
	CountryPareto []CountryPareto
}

// Analyzer runs the analytical engines over one cleaned transaction table.
// The table is never mutated; each engine returns a fresh output. The only
// inter-engine dependency is the segment rollup, which needs the RFM table.
type Analyzer struct {
	table txn.Table
	rfm   []RFMRecord
}

// NewAnalyzer creates an analyzer over the given cleaned transaction table.
func NewAnalyzer(table txn.Table) *Analyzer {
	return &Analyzer{table: table}
}

// RFM computes and caches the RFM table.
func (a *Analyzer) RFM() ([]RFMRecord, error) {
	rfm, err := BuildRFM(a.table)
	if err != nil {
		return nil, err
	}
	a.rfm = rfm
	return rfm, nil
}

// Segments rolls the RFM table up per segment. Calling it before RFM has
// produced output is a sequencing error.
func (a *Analyzer) Segments() ([]SegmentSummary, error) {
	return SummarizeSegments(a.rfm)
}

// Retention computes the cohort retention matrix.
func (a *Analyzer) Retention() (*CohortMatrix, error) {
	return BuildCohorts(a.table)
}

// CLV computes the customer lifetime value table.
func (a *Analyzer) CLV() ([]CLVRecord, error) {
	return BuildCLV(a.table)
}

// Pareto computes the customer-level revenue concentration curve.
func (a *Analyzer) Pareto() ([]ParetoRecord, error) {
	return BuildPareto(a.table)
}

// CountryPareto computes the country-level concentration variant.
func (a *Analyzer) CountryPareto() ([]CountryPareto, error) {
	return BuildCountryPareto(a.table)
}

// Run executes every engine in dependency order and collects the results.
// Any engine failure aborts the run; there is no partial-report mode.
func (a *Analyzer) Run() (*Results, error) {
	res := &Results{}
	var err error

	if res.RFM, err = a.RFM(); err != nil {
		return nil, err
	}
	logging.Debug().Int("customers", len(res.RFM)).Msg("RFM table built")

	if res.Segments, err = a.Segments(); err != nil {
		return nil, err
	}
	if res.Retention, err = a.Retention(); err != nil {
		return nil, err
	}
	logging.Debug().Int("cohorts", len(res.Retention.Months)).Msg("Cohort retention built")

	if res.CLV, err = a.CLV(); err != nil {
		return nil, err
	}
	if res.Pareto, err = a.Pareto(); err != nil {
		return nil, err
	}
	if res.CountryPareto, err = a.CountryPareto(); err != nil {
		return nil, err
	}

	logging.Info().
		Int("rfm_customers", len(res.RFM)).
		Int("segments", len(res.Segments)).
		Int("cohorts", len(res.Retention.Months)).
		Int("clv_customers", len(res.CLV)).
		Int("pareto_customers", len(res.Pareto)).
		Int("countries", len(res.CountryPareto)).
		Msg("Analytics run complete")

	return res, nil
}
