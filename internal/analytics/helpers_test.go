package analytics

import (
	"time"

	"github.com/retailab/retail-insights/internal/txn"
)

// mkRow builds one cleaned transaction row for tests. Revenue is carried as
// a single line item so the table contract holds.
func mkRow(customer, invoice string, when time.Time, revenue float64, cancelled bool) txn.Transaction {
	return txn.Transaction{
		CustomerID:   customer,
		InvoiceNo:    invoice,
		StockCode:    "10002",
		Description:  "test item",
		Quantity:     1,
		UnitPrice:    revenue,
		TotalRevenue: revenue,
		InvoiceDate:  when,
		YearMonth:    txn.MonthOf(when),
		Cancelled:    cancelled,
		Country:      "United Kingdom",
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}
