package analytics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/retailab/retail-insights/internal/txn"
)

// tenCustomerTable builds a table where customer i (1..10) has i distinct
// non-cancelled invoices of 10*i revenue each, with the last invoice i days
// into the month. All three metrics are distinct across customers.
func tenCustomerTable() txn.Table {
	var table txn.Table
	for i := 1; i <= 10; i++ {
		customer := fmt.Sprintf("1%03d", i)
		for j := 1; j <= i; j++ {
			invoice := fmt.Sprintf("54%03d%02d", i, j)
			when := day(2011, time.March, i).Add(time.Duration(j) * time.Hour)
			table = append(table, mkRow(customer, invoice, when, float64(10*i), false))
		}
	}
	return table
}

func TestBuildRFMScores(t *testing.T) {
	records, err := BuildRFM(tenCustomerTable())
	if err != nil {
		t.Fatalf("BuildRFM failed: %v", err)
	}
	if len(records) != 10 {
		t.Fatalf("Expected 10 RFM records, got %d", len(records))
	}

	// Equal-population property: each score value covers exactly 2 customers.
	for _, metric := range []struct {
		name  string
		score func(RFMRecord) int
	}{
		{"R_Score", func(r RFMRecord) int { return r.RScore }},
		{"F_Score", func(r RFMRecord) int { return r.FScore }},
		{"M_Score", func(r RFMRecord) int { return r.MScore }},
	} {
		counts := make(map[int]int)
		for _, rec := range records {
			s := metric.score(rec)
			if s < 1 || s > 5 {
				t.Errorf("%s out of range: %d", metric.name, s)
			}
			counts[s]++
		}
		for s := 1; s <= 5; s++ {
			if counts[s] != 2 {
				t.Errorf("%s: expected 2 customers with score %d, got %d",
					metric.name, s, counts[s])
			}
		}
	}

	for _, rec := range records {
		if rec.Monetary <= 0 {
			t.Errorf("Customer %s has Monetary %f <= 0", rec.CustomerID, rec.Monetary)
		}
		wantScore := fmt.Sprintf("%d%d%d", rec.RScore, rec.FScore, rec.MScore)
		if rec.RFMScore != wantScore {
			t.Errorf("RFM_Score mismatch: got %s, want %s", rec.RFMScore, wantScore)
		}
		if rec.Segment != SegmentLabel(rec.RScore, rec.FScore) {
			t.Errorf("Segment mismatch for %s: %s", rec.CustomerID, rec.Segment)
		}
	}

	// Customer 10 bought most, most recently, for the most money.
	last := records[len(records)-1]
	if last.RScore != 5 || last.FScore != 5 || last.MScore != 5 {
		t.Errorf("Expected 555 for the best customer, got %s", last.RFMScore)
	}
	if last.Segment != "Champion" {
		t.Errorf("Expected Champion, got %s", last.Segment)
	}
}

func TestBuildRFMRecency(t *testing.T) {
	table := tenCustomerTable()
	records, err := BuildRFM(table)
	if err != nil {
		t.Fatalf("BuildRFM failed: %v", err)
	}

	// Snapshot is the max invoice date plus one day, so the most recent
	// customer has a recency of exactly one day.
	var mostRecent *RFMRecord
	for i := range records {
		if records[i].CustomerID == "1010" {
			mostRecent = &records[i]
		}
	}
	if mostRecent == nil {
		t.Fatal("Customer 1010 missing from RFM table")
	}
	if mostRecent.Recency != 1 {
		t.Errorf("Expected recency 1 for the most recent customer, got %d", mostRecent.Recency)
	}
}

func TestBuildRFMDropsNonPositiveMonetary(t *testing.T) {
	table := tenCustomerTable()
	// A purchase fully refunded: net monetary value is zero.
	table = append(table,
		mkRow("2001", "549001", day(2011, time.March, 5), 100, false),
		mkRow("2001", "C549001", day(2011, time.March, 6), -100, true),
	)

	records, err := BuildRFM(table)
	if err != nil {
		t.Fatalf("BuildRFM failed: %v", err)
	}
	for _, rec := range records {
		if rec.CustomerID == "2001" {
			t.Error("Customer with Monetary <= 0 must not appear in the RFM table")
		}
	}
}

func TestBuildRFMDropsCancellationOnlyCustomers(t *testing.T) {
	table := tenCustomerTable()
	// Positive monetary value but no non-cancelled invoice: the frequency
	// join key is absent, so the inner join drops the customer.
	table = append(table,
		mkRow("2002", "C549002", day(2011, time.March, 5), 40, true),
	)

	records, err := BuildRFM(table)
	if err != nil {
		t.Fatalf("BuildRFM failed: %v", err)
	}
	for _, rec := range records {
		if rec.CustomerID == "2002" {
			t.Error("Customer with zero non-cancelled invoices must be dropped")
		}
	}
}

func TestBuildRFMFrequencyCountsDistinctInvoices(t *testing.T) {
	table := tenCustomerTable()
	records, err := BuildRFM(table)
	if err != nil {
		t.Fatalf("BuildRFM failed: %v", err)
	}
	for _, rec := range records {
		// Customer 1%03d has exactly i distinct invoices.
		var want int
		fmt.Sscanf(rec.CustomerID, "1%03d", &want)
		if rec.Frequency != want {
			t.Errorf("Customer %s: expected frequency %d, got %d",
				rec.CustomerID, want, rec.Frequency)
		}
	}
}

func TestBuildRFMInsufficientData(t *testing.T) {
	table := txn.Table{
		mkRow("1001", "540001", day(2011, time.March, 1), 10, false),
		mkRow("1002", "540002", day(2011, time.March, 2), 20, false),
		mkRow("1003", "540003", day(2011, time.March, 3), 30, false),
	}

	_, err := BuildRFM(table)
	if err == nil {
		t.Fatal("Expected InsufficientDataError with 3 customers, got nil")
	}
	var insufficientErr *InsufficientDataError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("Expected *InsufficientDataError, got %T: %v", err, err)
	}
}

func TestBuildRFMSchemaError(t *testing.T) {
	table := txn.Table{
		{InvoiceNo: "540001", InvoiceDate: day(2011, time.March, 1)}, // no customer id
	}

	_, err := BuildRFM(table)
	if err == nil {
		t.Fatal("Expected SchemaError, got nil")
	}
	var schemaErr *txn.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected *txn.SchemaError, got %T: %v", err, err)
	}
}
