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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/retailab/retail-insights/internal/logging"
)

// Column names required in the source CSV header.
var requiredColumns = []string{
	"InvoiceNo", "StockCode", "Description", "Quantity",
	"InvoiceDate", "UnitPrice", "CustomerID", "Country",
}

// dateLayout matches the source log's invoice date format (month/day/year hour:minute).
const dateLayout = "1/2/2006 15:04"

// LoadCSV reads and cleans a raw transaction log from a CSV file.
func LoadCSV(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction log: %w", err)
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("path", path).
		Int("rows", len(table)).
		Msg("Loaded transaction log")

	return table, nil
}

// ReadCSV parses a raw transaction log and returns the cleaned table.
// A missing required header column is a *SchemaError. Rows whose numeric or
// date fields cannot be parsed are dropped, matching the cleaning contract.
func ReadCSV(r io.Reader) (Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := colIndex[name]; !ok {
			return nil, &SchemaError{Column: name, Reason: "missing from CSV header", Row: -1}
		}
	}

	var (
		raws    []RawRecord
		dropped int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		raw, ok := parseRecord(record, colIndex)
		if !ok {
			dropped++
			continue
		}
		raws = append(raws, raw)
	}

	if dropped > 0 {
		logging.Debug().
			Int("rows", dropped).
			Msg("Dropped unparseable rows")
	}

	return Clean(raws), nil
}

func parseRecord(record []string, colIndex map[string]int) (RawRecord, bool) {
	field := func(name string) string {
		i := colIndex[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	quantity, err := strconv.Atoi(strings.TrimSpace(field("Quantity")))
	if err != nil {
		return RawRecord{}, false
	}
	unitPrice, err := strconv.ParseFloat(strings.TrimSpace(field("UnitPrice")), 64)
	if err != nil {
		return RawRecord{}, false
	}
	invoiceDate, err := time.Parse(dateLayout, strings.TrimSpace(field("InvoiceDate")))
	if err != nil {
		return RawRecord{}, false
	}

	return RawRecord{
		InvoiceNo:   field("InvoiceNo"),
		StockCode:   field("StockCode"),
		Description: field("Description"),
		Quantity:    quantity,
		InvoiceDate: invoiceDate,
		UnitPrice:   unitPrice,
		CustomerID:  field("CustomerID"),
		Country:     field("Country"),
	}, true
}
