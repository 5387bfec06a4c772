package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/retailab/retail-insights/internal/analytics"
)

func testResults() *analytics.Results {
	jan := time.Date(2011, time.January, 1, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2011, time.February, 1, 0, 0, 0, 0, time.UTC)

	return &analytics.Results{
		RFM: []analytics.RFMRecord{
			{CustomerID: "1001", Recency: 3, Frequency: 7, Monetary: 512.40,
				RScore: 5, FScore: 4, MScore: 5, RFMScore: "545", Segment: "Champion"},
		},
		Segments: []analytics.SegmentSummary{
			{Segment: "Champion", TotalRevenue: 512.40, TotalCustomers: 1,
				CustomerPct: 1, RevenuePct: 1},
		},
		Retention: &analytics.CohortMatrix{
			Months:  []time.Time{jan, feb},
			Indexes: []int{1, 2},
			Counts: map[time.Time]map[int]int{
				jan: {1: 2, 2: 1},
				feb: {1: 1},
			},
			Retention: map[time.Time]map[int]float64{
				jan: {1: 1.0, 2: 0.5},
				feb: {1: 1.0},
			},
		},
		CLV: []analytics.CLVRecord{
			{CustomerID: "1001", AOV: 73.2, PurchaseFrequency: 7, Lifespan: 1.5, CLV: 768.6},
		},
		Pareto: []analytics.ParetoRecord{
			{CustomerID: "1001", TotalRevenue: 512.40, CumRevenue: 512.40,
				CumRevenuePct: 1, CumCustomerPct: 1},
		},
		CountryPareto: []analytics.CountryPareto{
			{Country: "United Kingdom", TotalCustomers: 8, TotalRevenue: 512.40,
				CustomerPercent: 100, RevenuePercent: 100},
		},
	}
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse %s: %v", path, err)
	}
	return rows
}

func TestWriteAll(t *testing.T) {
	dir := t.TempDir()

	if err := WriteAll(dir, testResults()); err != nil {
		t.Fatalf("WriteAll failed: %v", err)
	}

	// Column names are the compatibility surface; check them exactly.
	headers := map[string]string{
		RFMFile:           "CustomerID,Recency,Frequency,Monetary,R_Score,F_Score,M_Score,RFM_Score,Segments",
		SegmentsFile:      "Segment,TotalRevenue,TotalCustomers,CustomerPct(%),RevenuePct(%)",
		CLVFile:           "CustomerID,AOV,PurchaseFrequency,Lifespan,CLV",
		ParetoFile:        "CustomerID,TotalRevenue,CumRevenue,CumRevenuePct,CumCustomerPct",
		CountryParetoFile: "Country,TotalCustomers,TotalRevenue,CustomerPercent(%),RevenuePercent(%)",
	}
	for file, want := range headers {
		rows := readCSVFile(t, filepath.Join(dir, file))
		if len(rows) < 2 {
			t.Errorf("%s: expected header plus data rows", file)
			continue
		}
		if got := strings.Join(rows[0], ","); got != want {
			t.Errorf("%s header mismatch:\n got  %s\n want %s", file, got, want)
		}
	}
}

func TestWriteRetentionMatrix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, RetentionFile)

	if err := WriteRetention(path, testResults().Retention); err != nil {
		t.Fatalf("WriteRetention failed: %v", err)
	}

	rows := readCSVFile(t, path)
	if len(rows) != 3 {
		t.Fatalf("Expected header plus 2 cohort rows, got %d rows", len(rows))
	}
	if rows[0][0] != "CohortMonth" || rows[0][1] != "1" || rows[0][2] != "2" {
		t.Errorf("Unexpected retention header: %v", rows[0])
	}
	if rows[1][0] != "2011-01" {
		t.Errorf("Expected first cohort 2011-01, got %s", rows[1][0])
	}
	// The February cohort has no index-2 cell; it must be blank, not zero.
	if rows[2][2] != "" {
		t.Errorf("Absent cell must be blank, got %q", rows[2][2])
	}
}

func TestWriteCharts(t *testing.T) {
	dir := t.TempDir()

	if err := WriteCharts(dir, testResults()); err != nil {
		t.Fatalf("WriteCharts failed: %v", err)
	}

	for _, file := range []string{ParetoChartFile, RetentionChartFile} {
		info, err := os.Stat(filepath.Join(dir, file))
		if err != nil {
			t.Errorf("Chart %s not written: %v", file, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("Chart %s is empty", file)
		}
	}
}
