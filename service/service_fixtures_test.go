package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ChristinaBak/Oasa/config"
	redisdao "github.com/ChristinaBak/Oasa/dao/redis"
	"github.com/ChristinaBak/Oasa/db"
	"github.com/ChristinaBak/Oasa/metrics"
	"github.com/stretchr/testify/require"
)

const sampleCSV = "date_hour,dv_validations,dv_platenum_station,dv_agency\n" +
	"2024-01-01 08:00:00,10,StopA,OSY\n" +
	"2024-01-01 09:00:00,5,StopA,OSY\n" +
	"2024-01-02 08:00:00,7,StopB,STASY\n"

var sourceConfig = config.SourceConfig{Sheet: "Sheet1", Table: "validations"}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// touch moves the modification time forward so the loader sees a change.
func touch(t *testing.T, path string, offset time.Duration) {
	t.Helper()
	at := time.Now().Add(offset)
	require.NoError(t, os.Chtimes(path, at, at))
}

type testDeps struct {
	store     *SnapshotStore
	client    *db.MemoryRedisClient
	cache     *redisdao.RedisDashboardDAO
	metrics   *metrics.Metrics
	refresher *SnapshotRefresherService
}

func newTestDeps(t *testing.T, location string) testDeps {
	t.Helper()
	return newTestDepsWithClient(t, location, db.NewMemoryRedisClient(context.Background()))
}

// newTestDepsWithClient builds a fresh process state on top of an existing cache.
func newTestDepsWithClient(t *testing.T, location string, client *db.MemoryRedisClient) testDeps {
	t.Helper()
	deps := testDeps{
		store:   NewSnapshotStore(),
		client:  client,
		cache:   redisdao.NewRedisDashboardDAO(client, time.Hour),
		metrics: metrics.NewMetrics(),
	}
	loader := NewSourceLoader(location, sourceConfig, nil)
	deps.refresher = NewSnapshotRefresherService(loader, deps.store, deps.cache, deps.metrics)
	return deps
}
