package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/ChristinaBak/Oasa/analytics"
	redisdao "github.com/ChristinaBak/Oasa/dao/redis"
	"github.com/ChristinaBak/Oasa/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRefresherService_Reload(t *testing.T) {
	// Arrange
	path := writeSource(t, t.TempDir(), "validations.csv", sampleCSV)
	touch(t, path, -time.Hour)
	deps := newTestDeps(t, path)

	// Act
	first, changed, err := deps.refresher.Reload(context.Background(), false)

	// Assert
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, uint64(1), first.Version)
	assert.Equal(t, 3, first.Len())
	assert.Same(t, first, deps.store.Current())

	// An unchanged file keeps the active snapshot.
	same, changed, err := deps.refresher.Reload(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Same(t, first, same)
}

func TestSnapshotRefresherService_ReloadPurgesStaleDashboards(t *testing.T) {
	path := writeSource(t, t.TempDir(), "validations.csv", sampleCSV)
	touch(t, path, -time.Hour)
	deps := newTestDeps(t, path)
	first, _, err := deps.refresher.Reload(context.Background(), false)
	require.NoError(t, err)
	require.NoError(t, deps.client.Set("dashboard_v1:1:abc", "{}", 0))

	require.NoError(t, os.WriteFile(path, []byte(sampleCSV+"2024-01-03 10:00:00,4,StopC,OSY\n"), 0o644))
	touch(t, path, 0)
	second, changed, err := deps.refresher.Reload(context.Background(), false)

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, first.Version+1, second.Version)
	assert.Equal(t, 4, second.Len())
	keys, err := deps.client.Keys("dashboard_v1:*")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSnapshotRefresherService_FailureKeepsPrevious(t *testing.T) {
	path := writeSource(t, t.TempDir(), "validations.csv", sampleCSV)
	deps := newTestDeps(t, path)
	first, _, err := deps.refresher.Reload(context.Background(), true)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	current, changed, err := deps.refresher.Reload(context.Background(), true)

	assert.Error(t, err)
	assert.False(t, changed)
	assert.Same(t, first, current)
	assert.Same(t, first, deps.store.Current())
}

func TestSnapshotRefresherService_PeriodicJob(t *testing.T) {
	path := writeSource(t, t.TempDir(), "validations.csv", sampleCSV)
	deps := newTestDeps(t, path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps.refresher.StartPeriodicJob(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return deps.store.Current() != nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSnapshotRefresherService_RestartDropsDashboardsOfEarlierRun(t *testing.T) {
	// Arrange: one run caches a dashboard in a shared cache.
	dir := t.TempDir()
	path := writeSource(t, dir, "validations.csv", sampleCSV)
	client := db.NewMemoryRedisClient(context.Background())
	firstRun := newTestDepsWithClient(t, path, client)
	_, _, err := firstRun.refresher.Reload(context.Background(), true)
	require.NoError(t, err)
	before, err := NewDashboardService(firstRun.store, firstRun.cache, firstRun.metrics, analytics.DefaultLimits).
		Dashboard(context.Background(), defaultQuery())
	require.NoError(t, err)
	require.Equal(t, 22.0, before.KPIs.TotalValidations)

	// Act: a new run with fresh in-process state loads a changed source.
	require.NoError(t, os.WriteFile(path, []byte("date_hour,dv_validations,dv_platenum_station,dv_agency\n"+
		"2024-01-01 08:00:00,1000,StopZ,OSY\n"), 0o644))
	secondRun := newTestDepsWithClient(t, path, client)
	snapshot, _, err := secondRun.refresher.Reload(context.Background(), true)
	require.NoError(t, err)
	after, err := NewDashboardService(secondRun.store, secondRun.cache, secondRun.metrics, analytics.DefaultLimits).
		Dashboard(context.Background(), defaultQuery())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, before.SnapshotVersion, snapshot.Version)
	assert.NotEqual(t, before.SnapshotID, after.SnapshotID)
	assert.Equal(t, 1000.0, after.KPIs.TotalValidations)
	keys, err := client.Keys("dashboard_v1:*")
	require.NoError(t, err)
	assert.Equal(t, []string{"dashboard_v1:" + snapshot.ID + ":" + redisdao.QueryDigest(defaultQuery())}, keys)
}
