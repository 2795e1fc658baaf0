package models

import (
	"fmt"
	"time"
)

const DATE_LAYOUT = "2006-01-02"
const DATE_HOUR_LAYOUT = "2006-01-02 15:00"

const NO_DATA_MESSAGE = "The selected filters returned an empty dataset."

// HOURS_PER_DAY is the fixed column count of the density matrix.
const HOURS_PER_DAY = 24

// PeakHour is the timestamp with the highest summed validations.
type PeakHour struct {
	Timestamp   time.Time `json:"date_hour"`
	Validations float64   `json:"validations"`
	Label       string    `json:"label"`
}

// KPIs are the scalar metrics of the key-metrics card.
// Peak is nil when the view is empty.
type KPIs struct {
	TotalValidations       float64   `json:"total_validations"`
	ActiveHours            int       `json:"active_hours"`
	MeanValidationsPerHour float64   `json:"mean_validations_per_hour"`
	ActiveStops            int       `json:"active_stops"`
	Peak                   *PeakHour `json:"peak,omitempty"`
}

func (k KPIs) Empty() bool {
	return k.Peak == nil
}

// RankedItem is one (category, sum) pair.
type RankedItem struct {
	Category    string  `json:"category"`
	Validations float64 `json:"validations"`
}

// Ranking is a table of categories ordered by descending sum.
type Ranking struct {
	Key   GroupingKey  `json:"key"`
	Items []RankedItem `json:"items"`
}

func (r Ranking) Empty() bool {
	return len(r.Items) == 0
}

// Total sums the ranked items.
func (r Ranking) Total() float64 {
	var total float64
	for _, item := range r.Items {
		total += item.Validations
	}
	return total
}

// TrendPoint is the summed validations of one category at one timestamp.
type TrendPoint struct {
	Timestamp   time.Time `json:"date_hour"`
	Validations float64   `json:"validations"`
}

// TrendSeries is one line of the ridership trend chart.
type TrendSeries struct {
	Category string       `json:"category"`
	Points   []TrendPoint `json:"points"`
}

// Trend is the hourly-sum time series, one series per category.
type Trend struct {
	Key        GroupingKey   `json:"key"`
	Timestamps []time.Time   `json:"timestamps"`
	Series     []TrendSeries `json:"series"`
}

func (t Trend) Empty() bool {
	return len(t.Series) == 0
}

// HourlyMean is the mean validations of a category at one hour of day.
type HourlyMean struct {
	Hour     int     `json:"hour"`
	Category string  `json:"category"`
	Mean     float64 `json:"mean"`
	Count    int     `json:"count"`
}

// HourlyAverages holds only (hour, category) pairs backed by at least one record.
type HourlyAverages struct {
	Key        GroupingKey  `json:"key"`
	Categories []string     `json:"categories"`
	Rows       []HourlyMean `json:"rows"`
}

func (h HourlyAverages) Empty() bool {
	return len(h.Rows) == 0
}

// DensityMatrix is the date x hour sum of validations.
// Cells[i][h] belongs to Dates[i] and hour h; missing combinations are 0.
type DensityMatrix struct {
	Dates []string    `json:"dates"`
	Cells [][]float64 `json:"cells"`
}

func (m DensityMatrix) Empty() bool {
	return len(m.Dates) == 0
}

// Coverage is the time span of the unfiltered records.
type Coverage struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (c Coverage) Empty() bool {
	return c.From.IsZero() && c.To.IsZero()
}

// DataQuality lists calendar days without any record in the coverage span.
type DataQuality struct {
	Coverage    Coverage `json:"coverage"`
	MissingDays []string `json:"missing_days"`
}

// DashboardQuery is a Selection plus the per-view grouping keys.
type DashboardQuery struct {
	Selection Selection   `json:"selection"`
	TrendBy   GroupingKey `json:"trend_by"`
	TopFiveBy GroupingKey `json:"top5_by"`
	HourlyBy  GroupingKey `json:"hourly_by"`
	Advisory  string      `json:"advisory,omitempty"`
}

// Canonical identifies the query for memoization: equal queries render
// equal strings regardless of set ordering.
func (q DashboardQuery) Canonical() string {
	return fmt.Sprintf("%s|trend=%s|top5=%s|hourly=%s|advisory=%t",
		q.Selection.Canonical(), q.TrendBy, q.TopFiveBy, q.HourlyBy, q.Advisory != "")
}

// Dashboard bundles every derived view for one query.
// Views that could not be computed are nil and listed in Unavailable.
type Dashboard struct {
	SnapshotID      string          `json:"snapshot_id"`
	SnapshotVersion uint64          `json:"snapshot_version"`
	NoData          bool            `json:"no_data"`
	Message         string          `json:"message,omitempty"`
	Advisories      []string        `json:"advisories,omitempty"`
	Unavailable     []string        `json:"unavailable,omitempty"`
	Coverage        Coverage        `json:"coverage"`
	KPIs            *KPIs           `json:"kpis,omitempty"`
	TopStops        *Ranking        `json:"top_stops,omitempty"`
	Trend           *Trend          `json:"trend,omitempty"`
	TopFive         *Ranking        `json:"top_five,omitempty"`
	HourlyAverages  *HourlyAverages `json:"hourly_averages,omitempty"`
	Density         *DensityMatrix  `json:"density,omitempty"`
	DataQuality     DataQuality     `json:"data_quality"`
}

// MarkUnavailable records a view that could not be computed.
func (d *Dashboard) MarkUnavailable(view string) {
	d.Unavailable = append(d.Unavailable, view)
}

// FilterOptions feeds the dashboard controls.
type FilterOptions struct {
	Stops            []string                 `json:"stops"`
	Agencies         []string                 `json:"agencies"`
	Coverage         Coverage                 `json:"coverage"`
	Defaults         Selection                `json:"defaults"`
	GroupingChoices  map[string][]GroupingKey `json:"grouping_choices"`
	GroupingDefaults map[string]GroupingKey   `json:"grouping_defaults"`
}
