package bench

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func perPoint(d time.Duration, n int) float64 {
	return float64(d.Nanoseconds()) / float64(n)
}

// Chart plots the nanoseconds per point of every measured operation against log2(N).
func Chart(results []Result, modulus uint64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "NTT sweep", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "NTT timings",
			Subtitle: fmt.Sprintf("p = %d", modulus),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "log2 N"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ns / point"}),
	)

	xs := make([]string, len(results))
	forward := make([]opts.LineData, len(results))
	inverse := make([]opts.LineData, len(results))
	multiply := make([]opts.LineData, len(results))
	batch := make([]opts.LineData, len(results))

	for i, r := range results {
		xs[i] = fmt.Sprint(r.Log)
		forward[i] = opts.LineData{Value: perPoint(r.Forward, r.Size)}
		inverse[i] = opts.LineData{Value: perPoint(r.Inverse, r.Size)}
		multiply[i] = opts.LineData{Value: perPoint(r.Multiply, r.Size)}
		batch[i] = opts.LineData{Value: perPoint(r.Batch, r.Size)}
	}

	line.SetXAxis(xs).
		AddSeries("forward", forward).
		AddSeries("inverse", inverse).
		AddSeries("multiply", multiply).
		AddSeries("batch forward", batch)

	return line
}

// Render writes the chart of results as a standalone HTML page.
func Render(w io.Writer, results []Result, modulus uint64) error {
	return Chart(results, modulus).Render(w)
}
