package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/retailab/retail-insights/internal/txn"
)

func TestBuildCLV(t *testing.T) {
	// Customer 1001: two invoices of 60 and 40 over 30 whole days.
	table := txn.Table{
		mkRow("1001", "540001", day(2011, time.January, 1), 60, false),
		mkRow("1001", "541001", day(2011, time.January, 31), 40, false),
	}

	records, err := BuildCLV(table)
	if err != nil {
		t.Fatalf("BuildCLV failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 CLV record, got %d", len(records))
	}

	rec := records[0]
	if rec.AOV != 50 {
		t.Errorf("Expected AOV 50, got %f", rec.AOV)
	}
	if rec.PurchaseFrequency != 2 {
		t.Errorf("Expected purchase frequency 2, got %d", rec.PurchaseFrequency)
	}
	wantLifespan := 31.0 / 30.0
	if math.Abs(rec.Lifespan-wantLifespan) > 1e-9 {
		t.Errorf("Expected lifespan %f, got %f", wantLifespan, rec.Lifespan)
	}
	wantCLV := 50 * 2 * wantLifespan
	if math.Abs(rec.CLV-wantCLV) > 1e-9 {
		t.Errorf("Expected CLV %f, got %f", wantCLV, rec.CLV)
	}
}

func TestBuildCLVSingleInvoiceLifespan(t *testing.T) {
	// One invoice: the +1 day adjustment gives a lifespan of 1/30 month.
	table := txn.Table{
		mkRow("1001", "540001", day(2011, time.January, 5), 80, false),
	}

	records, err := BuildCLV(table)
	if err != nil {
		t.Fatalf("BuildCLV failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 CLV record, got %d", len(records))
	}
	if math.Abs(records[0].Lifespan-1.0/30.0) > 1e-9 {
		t.Errorf("Expected lifespan 1/30, got %f", records[0].Lifespan)
	}
}

func TestBuildCLVDropsCancellationOnlyCustomers(t *testing.T) {
	// All invoices cancelled: purchase frequency 0 forces CLV = 0, and the
	// CLV > 0 filter drops the record.
	table := txn.Table{
		mkRow("1001", "540001", day(2011, time.January, 5), 80, false),
		mkRow("2001", "C540002", day(2011, time.January, 6), 45, true),
	}

	records, err := BuildCLV(table)
	if err != nil {
		t.Fatalf("BuildCLV failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 CLV record, got %d", len(records))
	}
	if records[0].CustomerID != "1001" {
		t.Errorf("Expected customer 1001, got %s", records[0].CustomerID)
	}
}

func TestBuildCLVAOVCountsAllInvoices(t *testing.T) {
	// The AOV denominator counts all distinct invoices, cancellations
	// included; only purchase frequency excludes them.
	table := txn.Table{
		mkRow("1001", "540001", day(2011, time.January, 1), 100, false),
		mkRow("1001", "C541001", day(2011, time.January, 10), -40, true),
	}

	records, err := BuildCLV(table)
	if err != nil {
		t.Fatalf("BuildCLV failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 CLV record, got %d", len(records))
	}
	rec := records[0]
	if rec.AOV != 30 { // (100 - 40) / 2 invoices
		t.Errorf("Expected AOV 30, got %f", rec.AOV)
	}
	if rec.PurchaseFrequency != 1 {
		t.Errorf("Expected purchase frequency 1, got %d", rec.PurchaseFrequency)
	}
}

func TestBuildCLVNegativeValueDropped(t *testing.T) {
	// Net-negative customers produce CLV <= 0 and are filtered out.
	table := txn.Table{
		mkRow("1001", "540001", day(2011, time.January, 1), 20, false),
		mkRow("1001", "C541001", day(2011, time.January, 10), -50, true),
	}

	records, err := BuildCLV(table)
	if err != nil {
		t.Fatalf("BuildCLV failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("Expected no CLV records, got %d", len(records))
	}
}
