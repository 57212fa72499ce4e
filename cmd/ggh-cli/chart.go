package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	ggh "github.com/BackendStack21/ggh-go"
)

// renderSearchChart writes an HTML line chart of the Hadamard ratio of every
// candidate basis drawn during a key search, with the acceptance threshold
// marked.
func renderSearchChart(filename string, n int, threshold float64, trace *ggh.SearchTrace) error {
	if trace == nil || len(trace.Ratios) == 0 {
		return fmt.Errorf("no candidates to plot")
	}

	labels := make([]string, len(trace.Ratios))
	items := make([]opts.LineData, len(trace.Ratios))
	for i, r := range trace.Ratios {
		labels[i] = strconv.Itoa(i + 1)
		items[i] = opts.LineData{Value: r}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "GGH key search",
			Width:     "1100px",
			Height:    "520px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Hadamard ratio per candidate (N=%d)", n),
			Subtitle: fmt.Sprintf("%d candidate(s), accepted ratio %.6f, threshold %v", trace.Attempts, trace.AcceptedRatio, threshold),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "candidate"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ratio"}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "inside"},
			opts.DataZoom{Type: "slider"},
		),
	)
	line.SetXAxis(labels).AddSeries("ratio", items,
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			YAxis: threshold,
			Name:  "threshold",
		}),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Label:     &opts.Label{Show: opts.Bool(true)},
			LineStyle: &opts.LineStyle{Type: "dashed", Width: 1},
		}),
	)

	page := components.NewPage()
	page.PageTitle = "GGH key search"
	page.AddCharts(line)

	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return page.Render(f)
}
