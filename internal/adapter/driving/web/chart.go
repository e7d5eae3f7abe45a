package web

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ericfisherdev/devfolio/internal/application"
	"github.com/ericfisherdev/devfolio/internal/domain/model"
)

const chartHeight = "320px"

// newActivityChart builds a stacked bar chart with one series per activity
// category over the daily buckets. Dates are shown as "Jan 02".
func newActivityChart(buckets []model.DailyBucket) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "Daily activity",
			Width:     "100%",
			Height:    chartHeight,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "bottom"}),
	)

	labels := make([]string, 0, len(buckets))
	for _, b := range buckets {
		labels = append(labels, chartLabel(b.Date))
	}
	bar.SetXAxis(labels)

	for _, c := range application.ActivityCategories {
		data := make([]opts.BarData, 0, len(buckets))
		for _, b := range buckets {
			data = append(data, opts.BarData{Value: b.Counts[c.Key]})
		}
		bar.AddSeries(c.Label, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: c.Color}))
	}

	bar.SetSeriesOptions(charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
	return bar
}

// renderActivityChart writes the chart as a standalone HTML page. Bar.Render
// validates the chart first, which fills the x axis and the asset host.
func renderActivityChart(w io.Writer, buckets []model.DailyBucket) error {
	return newActivityChart(buckets).Render(w)
}

func chartLabel(date string) string {
	t, err := parseDate(date)
	if err != nil {
		return date
	}
	return t.Format("Jan 02")
}
