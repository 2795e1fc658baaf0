package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Counters(t *testing.T) {
	// Arrange
	m := NewMetrics()

	// Act
	m.CacheHit()
	m.CacheMiss()
	m.CacheMiss()
	m.ObserveRecompute(time.Now(), "ok")
	m.SnapshotLoaded(4, 120)
	body := scrape(t, m)

	// Assert
	assert.Contains(t, body, `oasa_dashboard_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, `oasa_dashboard_cache_lookups_total{result="miss"} 2`)
	assert.Contains(t, body, `oasa_dashboard_recomputations_total{outcome="ok"} 1`)
	assert.Contains(t, body, "oasa_dashboard_recompute_seconds_count 1")
	assert.Contains(t, body, "oasa_snapshot_version 4")
	assert.Contains(t, body, "oasa_snapshot_records 120")
	assert.Contains(t, body, `oasa_snapshot_reloads_total{outcome="loaded"} 1`)
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()

	body := scrape(t, m)

	assert.Contains(t, body, "go_goroutines")
}
