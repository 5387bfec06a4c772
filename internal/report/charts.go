//-------------------------------------------------------------------------
//
// Retail Insights
//
// Copyright (c) 2025 - 2026, Retailab, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/retailab/retail-insights/internal/analytics"
	"github.com/retailab/retail-insights/internal/logging"
)

// Chart file names inside the output directory.
const (
	ParetoChartFile    = "pareto_curve.html"
	RetentionChartFile = "retention_heatmap.html"
)

// WriteCharts renders the Pareto curve and retention heatmap into dir.
func WriteCharts(dir string, res *analytics.Results) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	paretoPath := filepath.Join(dir, ParetoChartFile)
	if err := RenderParetoCurve(paretoPath, res.Pareto); err != nil {
		return err
	}

	retentionPath := filepath.Join(dir, RetentionChartFile)
	if err := RenderRetentionHeatmap(retentionPath, res.Retention); err != nil {
		return err
	}

	logging.Info().
		Str("dir", dir).
		Msg("Charts written")
	return nil
}

// RenderParetoCurve renders the cumulative revenue concentration curve:
// cumulative customer share on the x axis, cumulative revenue share on y.
func RenderParetoCurve(path string, records []analytics.ParetoRecord) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Revenue concentration",
			Subtitle: "Cumulative revenue share by cumulative customer share",
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Customers (%)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Revenue (%)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	)

	xs := make([]string, len(records))
	ys := make([]opts.LineData, len(records))
	for i, r := range records {
		xs[i] = fmt.Sprintf("%.1f", r.CumCustomerPct*100)
		ys[i] = opts.LineData{Value: r.CumRevenuePct * 100}
	}

	line.SetXAxis(xs).
		AddSeries("Cumulative revenue", ys,
			charts.WithLineChartOpts(opts.LineChart{Smooth: true}))

	return renderTo(path, line)
}

// RenderRetentionHeatmap renders the cohort retention matrix, cohort months
// on the y axis and cohort indexes on x.
func RenderRetentionHeatmap(path string, matrix *analytics.CohortMatrix) error {
	hm := charts.NewHeatMap()

	months := make([]string, len(matrix.Months))
	for i, m := range matrix.Months {
		months[i] = m.Format(monthLayout)
	}
	indexes := make([]string, len(matrix.Indexes))
	for i, idx := range matrix.Indexes {
		indexes[i] = fmt.Sprintf("%d", idx)
	}

	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Cohort retention",
			Subtitle: "Share of each cohort still transacting per month index",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Months since first purchase",
			Type: "category",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type: "category",
			Data: months,
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        0,
			Max:        1,
		}),
	)

	var cells []opts.HeatMapData
	for yi, month := range matrix.Months {
		for xi, index := range matrix.Indexes {
			if r, ok := matrix.Cell(month, index); ok {
				cells = append(cells, opts.HeatMapData{
					Value: [3]interface{}{xi, yi, r},
				})
			}
		}
	}

	hm.SetXAxis(indexes).AddSeries("retention", cells)

	return renderTo(path, hm)
}

type renderer interface {
	Render(w io.Writer) error
}

func renderTo(path string, chart renderer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
