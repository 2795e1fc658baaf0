package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ChristinaBak/Oasa/analytics"
	"github.com/ChristinaBak/Oasa/config"
	redisdao "github.com/ChristinaBak/Oasa/dao/redis"
	"github.com/ChristinaBak/Oasa/db"
	"github.com/ChristinaBak/Oasa/metrics"
	"github.com/ChristinaBak/Oasa/models"
	services "github.com/ChristinaBak/Oasa/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validationsCSV = "date_hour,dv_validations,dv_platenum_station,dv_agency\n" +
	"2024-01-06 08:00:00,10,StopA,OSY\n" +
	"2024-01-06 09:00:00,5,StopA,OSY\n" +
	"2024-01-08 08:00:00,7,StopB,STASY\n"

func newTestHandler(t *testing.T, load bool) *DashboardHandler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "validations.csv")
	require.NoError(t, os.WriteFile(path, []byte(validationsCSV), 0o644))

	m := metrics.NewMetrics()
	store := services.NewSnapshotStore()
	cache := redisdao.NewRedisDashboardDAO(db.NewMemoryRedisClient(context.Background()), time.Hour)
	loader := services.NewSourceLoader(path, config.SourceConfig{Sheet: "Sheet1", Table: "validations"}, nil)
	refresher := services.NewSnapshotRefresherService(loader, store, cache, m)
	if load {
		_, _, err := refresher.Reload(context.Background(), true)
		require.NoError(t, err)
	}
	return NewDashboardHandler(services.NewDashboardService(store, cache, m, analytics.DefaultLimits), refresher)
}

func serve(handler http.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(method, target, nil))
	return rr
}

func TestDashboardHandler_Ping(t *testing.T) {
	h := newTestHandler(t, false)

	rr := serve(h.Ping, "GET", "/ping")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"pong"}`, rr.Body.String())
}

func TestDashboardHandler_NoSnapshot(t *testing.T) {
	h := newTestHandler(t, false)

	for _, handler := range []http.HandlerFunc{h.GetOptions, h.GetDashboard, h.GetDataQuality} {
		rr := serve(handler, "GET", "/")
		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	}
}

func TestDashboardHandler_GetDashboard(t *testing.T) {
	// Arrange
	h := newTestHandler(t, true)

	// Act
	rr := serve(h.GetDashboard, "GET", "/v1/dashboard?stops=StopA&hour_from=8&hour_to=8")

	// Assert
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	var dashboard models.Dashboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dashboard))
	assert.False(t, dashboard.NoData)
	require.NotNil(t, dashboard.KPIs)
	assert.Equal(t, 10.0, dashboard.KPIs.TotalValidations)
	require.NotNil(t, dashboard.KPIs.Peak)
	assert.Equal(t, "2024-01-06 08:00 (10)", dashboard.KPIs.Peak.Label)
	assert.Equal(t, []string{"2024-01-07"}, dashboard.DataQuality.MissingDays)
}

func TestDashboardHandler_GetDashboardNoData(t *testing.T) {
	h := newTestHandler(t, true)

	rr := serve(h.GetDashboard, "GET", "/v1/dashboard?stops=StopB&weekend_only=true&weekdays_only=true&hour_to=7")

	require.Equal(t, http.StatusOK, rr.Code)
	var dashboard models.Dashboard
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &dashboard))
	assert.True(t, dashboard.NoData)
	assert.Equal(t, models.NO_DATA_MESSAGE, dashboard.Message)
	assert.Contains(t, dashboard.Advisories, models.DAY_TYPE_CONFLICT_ADVISORY)
}

func TestDashboardHandler_BadRequest(t *testing.T) {
	h := newTestHandler(t, true)

	rr := serve(h.GetDashboard, "GET", "/v1/dashboard?hour_from=25")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), HOUR_FROM_QUERY_ARG)
}

func TestDashboardHandler_GetDashboardCharts(t *testing.T) {
	h := newTestHandler(t, true)

	rr := serve(h.GetDashboardCharts, "GET", "/v1/dashboard/charts")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html"))
	assert.Contains(t, rr.Body.String(), "OASA Metro Insight Hub")
}

func TestDashboardHandler_OptionsAndQuality(t *testing.T) {
	h := newTestHandler(t, true)

	options := serve(h.GetOptions, "GET", "/v1/options")
	quality := serve(h.GetDataQuality, "GET", "/v1/data-quality")

	require.Equal(t, http.StatusOK, options.Code)
	var opts models.FilterOptions
	require.NoError(t, json.Unmarshal(options.Body.Bytes(), &opts))
	assert.Equal(t, []string{"StopA", "StopB"}, opts.Stops)
	assert.Equal(t, []string{"OSY", "STASY"}, opts.Agencies)
	assert.Equal(t, []string{"StopA"}, opts.Defaults.Stops)

	require.Equal(t, http.StatusOK, quality.Code)
	var dq models.DataQuality
	require.NoError(t, json.Unmarshal(quality.Body.Bytes(), &dq))
	assert.Equal(t, []string{"2024-01-07"}, dq.MissingDays)
}

func TestDashboardHandler_ReloadSnapshot(t *testing.T) {
	h := newTestHandler(t, true)

	rr := serve(h.ReloadSnapshot, "POST", "/v1/snapshot/reload")

	require.Equal(t, http.StatusOK, rr.Code)
	var resp ReloadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, resp.Changed)
	assert.Equal(t, uint64(2), resp.Version)
	assert.Equal(t, 3, resp.Records)
}
