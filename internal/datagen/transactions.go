//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/retailab/retail-insights/internal/logging"
	"github.com/retailab/retail-insights/internal/txn"
)

// Country mix for the generated log, weighted toward the home market the
// way the reference retail logs are.
var countries = []string{
	"United Kingdom", "Germany", "France", "Eire", "Spain",
	"Netherlands", "Belgium", "Switzerland", "Portugal", "Australia",
}

var countryWeights = []int{80, 4, 4, 3, 2, 2, 1, 1, 1, 2}

const (
	catalogSize     = 200
	firstInvoiceNo  = 536365
	firstCustomerID = 12346
	maxLineItems    = 6
	maxQuantity     = 24
)

// TransactionConfig configures synthetic transaction-log generation.
type TransactionConfig struct {
	// Customers is the number of distinct customers.
	Customers int

	// Months is the span of the log in calendar months, ending at EndDate.
	Months int

	// Seed makes generation reproducible (0 = random seed).
	Seed uint64

	// CancellationRate is the fraction of invoices later cancelled (0-1).
	CancellationRate float64

	// EndDate is the last day of the log (zero = today).
	EndDate time.Time
}

// product is one catalog entry shared by all generated invoices.
type product struct {
	stockCode   string
	description string
	unitPrice   float64
}

// TransactionGenerator produces a synthetic raw transaction log.
type TransactionGenerator struct {
	faker   *Faker
	cfg     TransactionConfig
	catalog []product
}

// NewTransactionGenerator creates a generator for the given configuration.
func NewTransactionGenerator(cfg TransactionConfig) *TransactionGenerator {
	var faker *Faker
	if cfg.Seed != 0 {
		faker = NewFakerWithSeed(cfg.Seed)
	} else {
		faker = NewFaker()
	}
	if cfg.EndDate.IsZero() {
		now := time.Now().UTC()
		cfg.EndDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	g := &TransactionGenerator{faker: faker, cfg: cfg}
	g.catalog = make([]product, catalogSize)
	for i := range g.catalog {
		g.catalog[i] = product{
			stockCode:   g.faker.Digits(5),
			description: g.faker.ProductName(),
			unitPrice:   g.faker.Price(0.5, 50),
		}
	}
	return g
}

// Generate produces the raw transaction log, ordered by invoice date.
// Order counts per customer follow a power-law-ish skew so a small share of
// customers carries most of the revenue, which gives the Pareto and RFM
// reports realistic shape.
func (g *TransactionGenerator) Generate() []txn.RawRecord {
	start := g.cfg.EndDate.AddDate(0, -g.cfg.Months, 0)
	invoiceNo := firstInvoiceNo

	var records []txn.RawRecord
	for c := 0; c < g.cfg.Customers; c++ {
		customerID := strconv.Itoa(firstCustomerID + c)
		country := ChooseWeighted(g.faker, countries, countryWeights)

		orders := 1 + int(math.Floor(math.Pow(g.faker.Float64(0, 1), 2)*12))
		for o := 0; o < orders; o++ {
			date := g.faker.DateRange(start, g.cfg.EndDate)
			invoice := strconv.Itoa(invoiceNo)
			invoiceNo++

			lines := g.faker.Int(1, maxLineItems)
			items := make([]txn.RawRecord, lines)
			for l := 0; l < lines; l++ {
				p := Choose(g.faker, g.catalog)
				items[l] = txn.RawRecord{
					InvoiceNo:   invoice,
					StockCode:   p.stockCode,
					Description: p.description,
					Quantity:    g.faker.Int(1, maxQuantity),
					InvoiceDate: date,
					UnitPrice:   p.unitPrice,
					CustomerID:  customerID,
					Country:     country,
				}
			}
			records = append(records, items...)

			if g.faker.Float64(0, 1) < g.cfg.CancellationRate {
				records = append(records, g.cancel(items)...)
			}
		}
	}

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].InvoiceDate.Before(records[b].InvoiceDate)
	})

	logging.Info().
		Int("customers", g.cfg.Customers).
		Int("months", g.cfg.Months).
		Int("rows", len(records)).
		Msg("Generated transaction log")

	return records
}

// cancel emits the return invoice for an order: same lines with negated
// quantities under a C-prefixed invoice number, a few days later. Returns
// near the window end are clamped so the log never extends past EndDate.
func (g *TransactionGenerator) cancel(items []txn.RawRecord) []txn.RawRecord {
	date := items[0].InvoiceDate.AddDate(0, 0, g.faker.Int(1, 14))
	if date.After(g.cfg.EndDate) {
		date = g.cfg.EndDate
	}
	returns := make([]txn.RawRecord, len(items))
	for i, item := range items {
		item.InvoiceNo = "C" + item.InvoiceNo
		item.Quantity = -item.Quantity
		item.InvoiceDate = date
		returns[i] = item
	}
	return returns
}
