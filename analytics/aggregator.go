package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/ChristinaBak/Oasa/models"
)

// ComputeKPIs computes the key-metrics card for a filtered view.
// An empty view yields zero metrics and a nil Peak.
func ComputeKPIs(view models.FilteredView) models.KPIs {
	if view.Empty() {
		return models.KPIs{}
	}

	var total float64
	hourly := make(map[int64]float64)
	stamps := make(map[int64]time.Time)
	stops := make(map[string]struct{})
	for _, r := range view.Records {
		total += r.Validations
		key := r.Timestamp.Unix()
		hourly[key] += r.Validations
		stamps[key] = r.Timestamp
		if view.Fields.HasStop && r.Stop != "" {
			stops[r.Stop] = struct{}{}
		}
	}

	kpis := models.KPIs{
		TotalValidations: total,
		ActiveHours:      len(hourly),
		ActiveStops:      len(stops),
	}
	if kpis.ActiveHours > 0 {
		kpis.MeanValidationsPerHour = total / float64(kpis.ActiveHours)
	}

	// Walking timestamps in ascending order and only replacing on a strictly
	// greater sum keeps the earliest hour on ties.
	keys := sortedUnixKeys(hourly)
	best := keys[0]
	for _, k := range keys[1:] {
		if hourly[k] > hourly[best] {
			best = k
		}
	}
	kpis.Peak = &models.PeakHour{
		Timestamp:   stamps[best],
		Validations: hourly[best],
		Label:       PeakLabel(stamps[best], hourly[best]),
	}
	return kpis
}

// PeakLabel renders a peak as "2024-01-01 08:00 (1,234)".
func PeakLabel(ts time.Time, validations float64) string {
	return fmt.Sprintf("%s (%s)", ts.Format(models.DATE_HOUR_LAYOUT), FormatCount(int64(validations)))
}

// TopN ranks stops by summed validations and keeps the first n (n <= 0 keeps all).
// Ties keep the lexicographic stop order.
func TopN(view models.FilteredView, n int) (models.Ranking, error) {
	ranking := models.Ranking{Key: models.GroupByStop}
	if !view.Fields.HasStop {
		return ranking, ErrGroupingUnavailable
	}
	if view.Empty() {
		return ranking, nil
	}

	items := sumBy(view.Records, models.GroupByStop)
	sortDescending(items)
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	ranking.Items = items
	return ranking, nil
}

// TopRegroup takes the top-n stops and redistributes their validations over
// a second grouping key. Grouping by stop returns the top-n ranking itself.
func TopRegroup(view models.FilteredView, n int, key models.GroupingKey) (models.Ranking, error) {
	top, err := TopN(view, n)
	if err != nil {
		return models.Ranking{Key: key}, err
	}
	if key == models.GroupByStop {
		return top, nil
	}
	if !Available(key, view.Fields) {
		return models.Ranking{Key: key}, ErrGroupingUnavailable
	}

	ranking := models.Ranking{Key: key}
	if top.Empty() {
		return ranking, nil
	}

	topStops := make(map[string]struct{}, len(top.Items))
	for _, item := range top.Items {
		topStops[item.Category] = struct{}{}
	}
	subset := make([]models.Record, 0, len(view.Records))
	for _, r := range view.Records {
		if _, ok := topStops[r.Stop]; ok {
			subset = append(subset, r)
		}
	}

	items := sumBy(subset, key)
	sortDescending(items)
	ranking.Items = items
	return ranking, nil
}

// Trend sums validations per (timestamp, category): one series per category,
// points ordered by timestamp.
func Trend(view models.FilteredView, key models.GroupingKey) (models.Trend, error) {
	trend := models.Trend{Key: key}
	if !Available(key, view.Fields) {
		return trend, ErrGroupingUnavailable
	}
	if view.Empty() {
		return trend, nil
	}

	sums := make(map[string]map[int64]float64)
	stamps := make(map[int64]time.Time)
	for _, r := range view.Records {
		category := Category(key, r)
		series, ok := sums[category]
		if !ok {
			series = make(map[int64]float64)
			sums[category] = series
		}
		ts := r.Timestamp.Unix()
		series[ts] += r.Validations
		stamps[ts] = r.Timestamp
	}

	for _, k := range sortedUnixKeys(stamps) {
		trend.Timestamps = append(trend.Timestamps, stamps[k])
	}

	categories := make([]string, 0, len(sums))
	for category := range sums {
		categories = append(categories, category)
	}
	sortCategories(key, categories)

	for _, category := range categories {
		series := models.TrendSeries{Category: category}
		for _, k := range sortedUnixKeys(sums[category]) {
			series.Points = append(series.Points, models.TrendPoint{
				Timestamp:   stamps[k],
				Validations: sums[category][k],
			})
		}
		trend.Series = append(trend.Series, series)
	}
	return trend, nil
}

type hourCategory struct {
	hour     int
	category string
}

type accumulator struct {
	sum   float64
	count int
}

// HourlyAverages computes mean validations per (hour of day, category).
// Only combinations backed by at least one record are reported.
func HourlyAverages(view models.FilteredView, key models.GroupingKey) (models.HourlyAverages, error) {
	result := models.HourlyAverages{Key: key}
	if !Available(key, view.Fields) {
		return result, ErrGroupingUnavailable
	}
	if view.Empty() {
		return result, nil
	}

	cells := make(map[hourCategory]*accumulator)
	seen := make(map[string]struct{})
	for _, r := range view.Records {
		hc := hourCategory{hour: r.Hour, category: Category(key, r)}
		acc, ok := cells[hc]
		if !ok {
			acc = &accumulator{}
			cells[hc] = acc
		}
		acc.sum += r.Validations
		acc.count++
		seen[hc.category] = struct{}{}
	}

	for category := range seen {
		result.Categories = append(result.Categories, category)
	}
	sortCategories(key, result.Categories)
	rank := make(map[string]int, len(result.Categories))
	for i, category := range result.Categories {
		rank[category] = i
	}

	for hc, acc := range cells {
		result.Rows = append(result.Rows, models.HourlyMean{
			Hour:     hc.hour,
			Category: hc.category,
			Mean:     mean(acc.sum, acc.count),
			Count:    acc.count,
		})
	}
	sort.Slice(result.Rows, func(i, j int) bool {
		if result.Rows[i].Hour != result.Rows[j].Hour {
			return result.Rows[i].Hour < result.Rows[j].Hour
		}
		return rank[result.Rows[i].Category] < rank[result.Rows[j].Category]
	})
	return result, nil
}

// Density builds the date x hour matrix of summed validations.
func Density(view models.FilteredView) models.DensityMatrix {
	matrix := models.DensityMatrix{}
	if view.Empty() {
		return matrix
	}

	rows := make(map[string][]float64)
	for _, r := range view.Records {
		day := r.Date.Format(models.DATE_LAYOUT)
		row, ok := rows[day]
		if !ok {
			row = make([]float64, models.HOURS_PER_DAY)
			rows[day] = row
		}
		row[r.Hour] += r.Validations
	}

	for day := range rows {
		matrix.Dates = append(matrix.Dates, day)
	}
	sort.Strings(matrix.Dates)
	for _, day := range matrix.Dates {
		matrix.Cells = append(matrix.Cells, rows[day])
	}
	return matrix
}

// sumBy groups records by the category of key and returns the sums in the
// key's natural category order.
func sumBy(records []models.Record, key models.GroupingKey) []models.RankedItem {
	sums := make(map[string]float64)
	for _, r := range records {
		sums[Category(key, r)] += r.Validations
	}
	categories := make([]string, 0, len(sums))
	for category := range sums {
		categories = append(categories, category)
	}
	sortCategories(key, categories)

	items := make([]models.RankedItem, 0, len(categories))
	for _, category := range categories {
		items = append(items, models.RankedItem{Category: category, Validations: sums[category]})
	}
	return items
}

func sortDescending(items []models.RankedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Validations > items[j].Validations
	})
}

func sortedUnixKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func mean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// FormatCount formats an integer with comma thousands separators.
func FormatCount(n int64) string {
	if n < 0 {
		return "-" + FormatCount(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatCount(n/1000), n%1000)
}
