package util

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// DayCount is one bar group of the events-per-day chart.
type DayCount struct {
	Label      string
	Patronales int
	Populares  int
}

// PlotEventsPerDay renders an HTML bar chart with one bar per category and festival day.
func PlotEventsPerDay(w io.Writer, title string, days []DayCount) error {
	labels := make([]string, 0, len(days))
	patronales := make([]opts.BarData, 0, len(days))
	populares := make([]opts.BarData, 0, len(days))
	for _, d := range days {
		labels = append(labels, d.Label)
		patronales = append(patronales, opts.BarData{Value: d.Patronales})
		populares = append(populares, opts.BarData{Value: d.Populares})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: "Eventos por día de fiesta",
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	bar.SetXAxis(labels).
		AddSeries("Patronales", patronales).
		AddSeries("Populares", populares)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
