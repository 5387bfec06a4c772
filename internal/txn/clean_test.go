package txn

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestCleanDropsUnattributableRows(t *testing.T) {
	raws := []RawRecord{
		{InvoiceNo: "536365", StockCode: "85123", CustomerID: "17850.0",
			Quantity: 6, UnitPrice: 2.55, InvoiceDate: date(2010, 12, 1, 8, 26), Country: "United Kingdom"},
		{InvoiceNo: "536366", StockCode: "85123", CustomerID: "",
			Quantity: 6, UnitPrice: 2.55, InvoiceDate: date(2010, 12, 1, 8, 28), Country: "United Kingdom"},
		{InvoiceNo: "536367", StockCode: "85123", CustomerID: "not-a-number",
			Quantity: 6, UnitPrice: 2.55, InvoiceDate: date(2010, 12, 1, 8, 34), Country: "United Kingdom"},
	}

	table := Clean(raws)
	if len(table) != 1 {
		t.Fatalf("Expected 1 row after cleaning, got %d", len(table))
	}
	if table[0].CustomerID != "17850" {
		t.Errorf("Expected customer id '17850', got '%s'", table[0].CustomerID)
	}
}

func TestCleanFiltersLetterOnlyStockCodes(t *testing.T) {
	raws := []RawRecord{
		{InvoiceNo: "536365", StockCode: "POST", CustomerID: "17850",
			Quantity: 1, UnitPrice: 18.0, InvoiceDate: date(2010, 12, 1, 8, 26), Country: "France"},
		{InvoiceNo: "536365", StockCode: "22752", CustomerID: "17850",
			Quantity: 2, UnitPrice: 7.65, InvoiceDate: date(2010, 12, 1, 8, 26), Country: "France"},
	}

	table := Clean(raws)
	if len(table) != 1 {
		t.Fatalf("Expected 1 row after cleaning, got %d", len(table))
	}
	if table[0].StockCode != "22752" {
		t.Errorf("Expected stock code '22752', got '%s'", table[0].StockCode)
	}
}

func TestCleanDerivesColumns(t *testing.T) {
	raws := []RawRecord{
		{InvoiceNo: "C536379", StockCode: "85123", Description: "  WHITE HANGING HEART ",
			CustomerID: "14527", Quantity: -1, UnitPrice: 27.5,
			InvoiceDate: date(2010, 12, 14, 9, 32), Country: "united kingdom"},
	}

	table := Clean(raws)
	if len(table) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table))
	}
	row := table[0]

	if !row.Cancelled {
		t.Error("C-prefixed invoice should be flagged as cancelled")
	}
	if row.TotalRevenue != -27.5 {
		t.Errorf("Expected TotalRevenue -27.5, got %f", row.TotalRevenue)
	}
	if row.Description != "white hanging heart" {
		t.Errorf("Description not normalized: '%s'", row.Description)
	}
	if row.Country != "United Kingdom" {
		t.Errorf("Country not title-cased: '%s'", row.Country)
	}
	want := date(2010, 12, 1, 0, 0)
	if !row.YearMonth.Equal(want) {
		t.Errorf("Expected YearMonth %v, got %v", want, row.YearMonth)
	}
}

func TestReadCSV(t *testing.T) {
	input := `InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,CustomerID,Country
536365,85123A,WHITE HANGING HEART T-LIGHT HOLDER,6,12/1/2010 8:26,2.55,17850,United Kingdom
536365,71053,WHITE METAL LANTERN,6,12/1/2010 8:26,3.39,17850,United Kingdom
536366,22633,HAND WARMER UNION JACK,6,12/1/2010 8:28,1.85,,United Kingdom
bad,22633,HAND WARMER,notanumber,12/1/2010 8:28,1.85,13047,United Kingdom
`

	table, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	// Row 3 has no customer id, row 4 has an unparseable quantity.
	if len(table) != 2 {
		t.Fatalf("Expected 2 cleaned rows, got %d", len(table))
	}
	if err := table.Validate(); err != nil {
		t.Errorf("Cleaned table should satisfy the contract, got: %v", err)
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	input := `InvoiceNo,StockCode,Description,Quantity,InvoiceDate,UnitPrice,Country
536365,85123A,WHITE HANGING HEART,6,12/1/2010 8:26,2.55,United Kingdom
`

	_, err := ReadCSV(strings.NewReader(input))
	if err == nil {
		t.Fatal("Expected SchemaError for missing CustomerID column")
	}
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected *SchemaError, got %T: %v", err, err)
	}
	if schemaErr.Column != "CustomerID" {
		t.Errorf("Expected column CustomerID, got %s", schemaErr.Column)
	}
}

func TestTableValidate(t *testing.T) {
	valid := Transaction{
		CustomerID: "17850", InvoiceNo: "536365", Quantity: 6, UnitPrice: 2.55,
		TotalRevenue: 15.3, InvoiceDate: date(2010, 12, 1, 8, 26),
		YearMonth: date(2010, 12, 1, 0, 0), Country: "United Kingdom",
	}

	tests := []struct {
		name       string
		mutate     func(tx *Transaction)
		wantColumn string
	}{
		{
			name:       "missing customer id",
			mutate:     func(tx *Transaction) { tx.CustomerID = "" },
			wantColumn: "CustomerID",
		},
		{
			name:       "missing invoice id",
			mutate:     func(tx *Transaction) { tx.InvoiceNo = "" },
			wantColumn: "InvoiceNo",
		},
		{
			name:       "missing invoice date",
			mutate:     func(tx *Transaction) { tx.InvoiceDate = time.Time{} },
			wantColumn: "InvoiceDate",
		},
		{
			name:       "year-month not aligned",
			mutate:     func(tx *Transaction) { tx.YearMonth = date(2010, 12, 15, 0, 0) },
			wantColumn: "YearMonth",
		},
		{
			name:       "revenue inconsistent",
			mutate:     func(tx *Transaction) { tx.TotalRevenue = 99 },
			wantColumn: "TotalRevenue",
		},
	}

	if err := (Table{valid}).Validate(); err != nil {
		t.Fatalf("Valid table should pass, got: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := valid
			tt.mutate(&row)
			err := (Table{row}).Validate()
			if err == nil {
				t.Fatal("Expected validation error, got nil")
			}
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("Expected *SchemaError, got %T", err)
			}
			if schemaErr.Column != tt.wantColumn {
				t.Errorf("Expected column %s, got %s", tt.wantColumn, schemaErr.Column)
			}
		})
	}
}
