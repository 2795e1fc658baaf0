package analytics

import (
	"testing"

	"github.com/ChristinaBak/Oasa/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultQuery(sel models.Selection) models.DashboardQuery {
	return models.DashboardQuery{
		Selection: sel,
		TrendBy:   models.ViewTrend.DefaultKey(),
		TopFiveBy: models.ViewTopFive.DefaultKey(),
		HourlyBy:  models.ViewHourly.DefaultKey(),
	}
}

func TestBuildDashboard_AllViews(t *testing.T) {
	// Arrange
	snapshot := weekSnapshot()

	// Act
	dashboard := BuildDashboard(snapshot, defaultQuery(models.NewSelection()), DefaultLimits)

	// Assert
	assert.False(t, dashboard.NoData)
	assert.Equal(t, uint64(2), dashboard.SnapshotVersion)
	assert.Equal(t, snapshot.ID, dashboard.SnapshotID)
	assert.Empty(t, dashboard.Unavailable)
	require.NotNil(t, dashboard.KPIs)
	assert.Equal(t, 33.0, dashboard.KPIs.TotalValidations)
	require.NotNil(t, dashboard.TopStops)
	assert.Len(t, dashboard.TopStops.Items, 3)
	require.NotNil(t, dashboard.Trend)
	require.NotNil(t, dashboard.TopFive)
	require.NotNil(t, dashboard.HourlyAverages)
	require.NotNil(t, dashboard.Density)
	assert.Equal(t, []string{"2024-01-07"}, dashboard.DataQuality.MissingDays)
}

func TestBuildDashboard_NoData(t *testing.T) {
	sel := models.NewSelection()
	sel.Stops = []string{"StopZ"}

	dashboard := BuildDashboard(threeRecordSnapshot(), defaultQuery(sel), DefaultLimits)

	assert.True(t, dashboard.NoData)
	assert.Equal(t, models.NO_DATA_MESSAGE, dashboard.Message)
	assert.Nil(t, dashboard.KPIs)
	assert.Nil(t, dashboard.Trend)
	assert.Nil(t, dashboard.Density)
}

func TestBuildDashboard_CarriesAdvisory(t *testing.T) {
	mode, advisory := models.ResolveDayType(true, true)
	sel := models.NewSelection()
	sel.DayType = mode
	query := defaultQuery(sel)
	query.Advisory = advisory

	dashboard := BuildDashboard(weekSnapshot(), query, DefaultLimits)

	assert.Equal(t, []string{models.DAY_TYPE_CONFLICT_ADVISORY}, dashboard.Advisories)
	assert.Equal(t, 33.0, dashboard.KPIs.TotalValidations)
}

func TestBuildDashboard_DegradesWithoutStopColumn(t *testing.T) {
	snapshot := NewSnapshot("fixture", 1, models.RawTable{
		Rows: []models.RawRow{
			{DateHour: "2024-01-01 08:00", Validations: 3},
			{DateHour: "2024-01-02 09:00", Validations: 4},
		},
	})

	dashboard := BuildDashboard(snapshot, defaultQuery(models.NewSelection()), DefaultLimits)

	assert.False(t, dashboard.NoData)
	assert.ElementsMatch(t, []string{"top_stops", "top5"}, dashboard.Unavailable)
	assert.Nil(t, dashboard.TopStops)
	assert.Nil(t, dashboard.TopFive)
	assert.NotNil(t, dashboard.Trend)
	assert.NotNil(t, dashboard.HourlyAverages)
	assert.Equal(t, 7.0, dashboard.KPIs.TotalValidations)
}

func TestSnapshot_Options(t *testing.T) {
	options := weekSnapshot().Options()

	assert.Equal(t, []string{"StopA", "StopB", "StopC"}, options.Stops)
	assert.Equal(t, []string{"OSY", "STASY"}, options.Agencies)
	assert.Equal(t, []string{"StopA"}, options.Defaults.Stops)
	assert.Equal(t, []string{"OSY", "STASY"}, options.Defaults.Agencies)
	assert.Equal(t, dayOf(t, "2024-01-05"), options.Defaults.DateFrom)
	assert.Equal(t, dayOf(t, "2024-01-08"), options.Defaults.DateTo)
	assert.Equal(t, 0, options.Defaults.HourFrom)
	assert.Equal(t, 23, options.Defaults.HourTo)
	assert.Equal(t, []models.GroupingKey{models.GroupByStop, models.GroupByDayOfWeek}, options.GroupingChoices["hourly"])
	assert.Equal(t, models.GroupByStop, options.GroupingDefaults["top5"])
}

func TestSnapshot_OptionsWithoutStops(t *testing.T) {
	snapshot := NewSnapshot("fixture", 1, models.RawTable{
		Rows: []models.RawRow{{DateHour: "2024-01-01 08:00", Validations: 3}},
	})

	options := snapshot.Options()

	assert.Empty(t, options.Stops)
	assert.Nil(t, options.Defaults.Stops)
	assert.Equal(t, models.GroupByHour, options.GroupingDefaults["top5"])
	assert.Equal(t, []models.GroupingKey{models.GroupByDayOfWeek}, options.GroupingChoices["hourly"])
}

func TestNewSnapshot_IDsAreUnique(t *testing.T) {
	first := NewSnapshot("a", 1, models.RawTable{})
	second := NewSnapshot("a", 1, models.RawTable{})

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}
