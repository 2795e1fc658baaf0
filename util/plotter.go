package util

import (
	"fmt"
	"io"
	"strconv"

	"github.com/ChristinaBak/Oasa/models"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const PAGE_TITLE = "OASA Metro Insight Hub"

const CHART_BACKGROUND = "#0b1220"

// PALETTE is the categorical color cycle shared by every chart.
var PALETTE = opts.Colors{
	"#3b82f6", // blue
	"#ef4444", // red
	"#f59e0b", // amber
	"#22c55e", // green
	"#a855f7", // purple
	"#06b6d4", // cyan
}

// missing marks an absent point so echarts leaves a gap.
const missing = "-"

// RenderDashboardPage writes the dashboard charts as one HTML page.
func RenderDashboardPage(w io.Writer, dashboard models.Dashboard) error {
	page := components.NewPage()
	page.SetPageTitle(PAGE_TITLE)

	if dashboard.NoData {
		page.AddCharts(noDataChart(dashboard))
		return page.Render(w)
	}

	if dashboard.TopStops != nil {
		page.AddCharts(topStopsChart(dashboard))
	}
	if dashboard.Trend != nil {
		page.AddCharts(trendChart(*dashboard.Trend))
	}
	if dashboard.TopFive != nil {
		page.AddCharts(topFiveChart(*dashboard.TopFive))
	}
	if dashboard.HourlyAverages != nil {
		page.AddCharts(hourlyChart(*dashboard.HourlyAverages))
	}
	if dashboard.Density != nil {
		page.AddCharts(densityChart(*dashboard.Density))
	}
	return page.Render(w)
}

func globalOpts(title, subtitle string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:       PAGE_TITLE,
			Width:           "1100px",
			Height:          "480px",
			BackgroundColor: CHART_BACKGROUND,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
			TitleStyle: &opts.TextStyle{
				Color: "#e5e7eb",
			},
		}),
		charts.WithColorsOpts(PALETTE),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "5%"}),
	}
}

// KPISummary is the one-line key-metrics card shown under the first chart title.
func KPISummary(dashboard models.Dashboard) string {
	coverage := ""
	if !dashboard.Coverage.Empty() {
		coverage = fmt.Sprintf("Data coverage: %s to %s | ",
			dashboard.Coverage.From.Format(models.DATE_HOUR_LAYOUT),
			dashboard.Coverage.To.Format(models.DATE_HOUR_LAYOUT))
	}
	if dashboard.KPIs == nil || dashboard.KPIs.Empty() {
		return coverage + models.NO_DATA_MESSAGE
	}
	kpis := dashboard.KPIs
	return fmt.Sprintf("%sActive stops: %d | Mean validations/hour: %.1f | Total validations: %s | Peak hour: %s",
		coverage, kpis.ActiveStops, kpis.MeanValidationsPerHour,
		FormatThousands(kpis.TotalValidations), kpis.Peak.Label)
}

// FormatThousands renders a total in thousands with one decimal, e.g. 12.3K.
func FormatThousands(total float64) string {
	return strconv.FormatFloat(total/1000, 'f', 1, 64) + "K"
}

func noDataChart(dashboard models.Dashboard) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(models.NO_DATA_MESSAGE, KPISummary(dashboard))...)
	bar.SetXAxis([]string{})
	return bar
}

func topStopsChart(dashboard models.Dashboard) *charts.Bar {
	ranking := *dashboard.TopStops
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(fmt.Sprintf("Top %d Stops (current filters)", len(ranking.Items)), KPISummary(dashboard))...)

	// Reversed so the largest bar ends up on top once the axes are swapped.
	names := make([]string, 0, len(ranking.Items))
	data := make([]opts.BarData, 0, len(ranking.Items))
	for i := len(ranking.Items) - 1; i >= 0; i-- {
		names = append(names, ranking.Items[i].Category)
		data = append(data, opts.BarData{Value: ranking.Items[i].Validations})
	}
	bar.SetXAxis(names).AddSeries("Validations", data).XYReversal()
	return bar
}

func trendChart(trend models.Trend) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(fmt.Sprintf("Ridership Trend (Hourly sum) by %s", trend.Key.Label()), "")...)

	labels := make([]string, len(trend.Timestamps))
	index := make(map[int64]int, len(trend.Timestamps))
	for i, ts := range trend.Timestamps {
		labels[i] = ts.Format(models.DATE_HOUR_LAYOUT)
		index[ts.Unix()] = i
	}
	line.SetXAxis(labels)

	for _, series := range trend.Series {
		data := make([]opts.LineData, len(labels))
		for i := range data {
			data[i] = opts.LineData{Value: missing}
		}
		for _, point := range series.Points {
			data[index[point.Timestamp.Unix()]] = opts.LineData{Value: point.Validations}
		}
		line.AddSeries(series.Category, data)
	}
	return line
}

func topFiveChart(ranking models.Ranking) *charts.Bar {
	bar := charts.NewBar()
	title := "Top 5 Stops (sum) by Stop"
	if ranking.Key != models.GroupByStop {
		title = fmt.Sprintf("Top 5 Stops (sum) aggregated by %s", ranking.Key.Label())
	}
	bar.SetGlobalOptions(globalOpts(title, "")...)

	names := make([]string, 0, len(ranking.Items))
	data := make([]opts.BarData, 0, len(ranking.Items))
	for _, item := range ranking.Items {
		names = append(names, item.Category)
		data = append(data, opts.BarData{Value: item.Validations})
	}
	bar.SetXAxis(names).AddSeries("Validations", data)
	return bar
}

func hourlyChart(hourly models.HourlyAverages) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(fmt.Sprintf("Average by Hour (mean) by %s", hourly.Key.Label()), "")...)

	var hours []int
	seen := make(map[int]int)
	for _, row := range hourly.Rows {
		if _, ok := seen[row.Hour]; !ok {
			seen[row.Hour] = len(hours)
			hours = append(hours, row.Hour)
		}
	}
	labels := make([]string, len(hours))
	for i, h := range hours {
		labels[i] = strconv.Itoa(h)
	}
	bar.SetXAxis(labels)

	series := make(map[string][]opts.BarData, len(hourly.Categories))
	for _, category := range hourly.Categories {
		data := make([]opts.BarData, len(hours))
		for i := range data {
			data[i] = opts.BarData{Value: missing}
		}
		series[category] = data
	}
	for _, row := range hourly.Rows {
		series[row.Category][seen[row.Hour]] = opts.BarData{Value: row.Mean}
	}
	for _, category := range hourly.Categories {
		bar.AddSeries(category, series[category])
	}
	return bar
}

func densityChart(matrix models.DensityMatrix) *charts.HeatMap {
	heatmap := charts.NewHeatMap()

	hours := make([]string, models.HOURS_PER_DAY)
	for h := range hours {
		hours[h] = strconv.Itoa(h)
	}

	var peak float64
	data := make([]opts.HeatMapData, 0, len(matrix.Dates)*models.HOURS_PER_DAY)
	for d, row := range matrix.Cells {
		for h, value := range row {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{h, d, value}})
			if value > peak {
				peak = value
			}
		}
	}

	options := globalOpts("Heatmap (day x hour): sum of validations", "")
	options = append(options,
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: "Hour", Data: hours}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: "Date", Data: matrix.Dates}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(peak),
			InRange:    &opts.VisualMapInRange{Color: []string{"#0f172a", "#3b82f6", "#ef4444"}},
		}),
	)
	heatmap.SetGlobalOptions(options...)
	heatmap.SetXAxis(hours).AddSeries("Validations", data)
	return heatmap
}
