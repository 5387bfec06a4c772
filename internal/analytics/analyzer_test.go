package analytics

import (
	"math"
	"testing"
	"time"
)

func TestAnalyzerRun(t *testing.T) {
	table := tenCustomerTable()
	// One cancellation-only customer that every engine must exclude from
	// its positive-value outputs.
	table = append(table,
		mkRow("9001", "C549900", day(2011, time.March, 9), -75, true),
	)

	res, err := NewAnalyzer(table).Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(res.RFM) != 10 {
		t.Errorf("Expected 10 RFM records, got %d", len(res.RFM))
	}
	for _, rec := range res.RFM {
		if rec.CustomerID == "9001" {
			t.Error("Cancellation-only customer leaked into the RFM table")
		}
	}

	if len(res.Segments) == 0 {
		t.Fatal("Expected segment summaries")
	}
	var customerPct float64
	for _, s := range res.Segments {
		customerPct += s.CustomerPct
	}
	if math.Abs(customerPct-1.0) > 1e-9 {
		t.Errorf("Segment CustomerPct sum = %f, want 1.0", customerPct)
	}

	if res.Retention == nil || len(res.Retention.Months) == 0 {
		t.Fatal("Expected cohort retention output")
	}
	for _, month := range res.Retention.Months {
		if r, ok := res.Retention.Cell(month, 1); !ok || r != 1.0 {
			t.Errorf("Cohort %v: retention at index 1 = %f", month, r)
		}
	}

	if len(res.CLV) != 10 {
		t.Errorf("Expected 10 CLV records, got %d", len(res.CLV))
	}
	if len(res.Pareto) != 10 {
		t.Errorf("Expected 10 Pareto records, got %d", len(res.Pareto))
	}
	if math.Abs(res.Pareto[len(res.Pareto)-1].CumRevenuePct-1.0) > 1e-9 {
		t.Error("Pareto curve does not reach 1.0")
	}
	if len(res.CountryPareto) != 1 {
		t.Errorf("Expected 1 country, got %d", len(res.CountryPareto))
	}
}

func TestAnalyzerRunDoesNotMutateInput(t *testing.T) {
	table := tenCustomerTable()
	before := make([]string, len(table))
	for i, row := range table {
		before[i] = row.CustomerID + row.InvoiceNo + row.YearMonth.String()
	}

	if _, err := NewAnalyzer(table).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for i, row := range table {
		after := row.CustomerID + row.InvoiceNo + row.YearMonth.String()
		if after != before[i] {
			t.Fatalf("Input table mutated at row %d", i)
		}
	}
}
