//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package txn

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RawRecord is one unvalidated row of the source transaction log, before
// cleaning. The CSV and PostgreSQL loaders both produce RawRecords; date and
// numeric parsing is the loader's job.
type RawRecord struct {
	InvoiceNo   string
	StockCode   string
	Description string
	Quantity    int
	InvoiceDate time.Time
	UnitPrice   float64
	CustomerID  string
	Country     string
}

// letterOnlyStock matches non-product stock codes such as POST, DOT or
// BANK CHARGES variants that carry no sellable item.
var letterOnlyStock = regexp.MustCompile(`^[A-Za-z]+$`)

var titleCaser = cases.Title(language.English)

// cancelPrefix marks return/cancellation invoices in the source log.
const cancelPrefix = "C"

// Clean turns raw log rows into the cleaned transaction table:
// rows without a usable customer id, invoice id or invoice date are dropped,
// letter-only stock codes are filtered out, the cancellation flag and total
// revenue are derived, and text columns are normalized.
func Clean(raws []RawRecord) Table {
	table := make(Table, 0, len(raws))
	for _, r := range raws {
		customerID := normalizeCustomerID(r.CustomerID)
		if customerID == "" {
			continue
		}
		invoiceNo := strings.TrimSpace(r.InvoiceNo)
		if invoiceNo == "" || r.InvoiceDate.IsZero() {
			continue
		}
		stockCode := strings.TrimSpace(r.StockCode)
		if letterOnlyStock.MatchString(stockCode) {
			continue
		}

		table = append(table, Transaction{
			CustomerID:   customerID,
			InvoiceNo:    invoiceNo,
			StockCode:    stockCode,
			Description:  strings.ToLower(strings.TrimSpace(r.Description)),
			Quantity:     r.Quantity,
			InvoiceDate:  r.InvoiceDate,
			YearMonth:    MonthOf(r.InvoiceDate),
			UnitPrice:    r.UnitPrice,
			TotalRevenue: float64(r.Quantity) * r.UnitPrice,
			Cancelled:    strings.HasPrefix(invoiceNo, cancelPrefix),
			Country:      titleCaser.String(strings.TrimSpace(r.Country)),
		})
	}
	return table
}

// normalizeCustomerID coerces the raw customer id to its integer form.
// The source log stores ids as floats ("17850.0"); rows with a missing or
// non-numeric id are unattributable and return "".
func normalizeCustomerID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ""
	}
	return strconv.FormatInt(int64(f), 10)
}
