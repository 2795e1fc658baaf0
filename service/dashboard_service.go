package services

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ChristinaBak/Oasa/analytics"
	"github.com/ChristinaBak/Oasa/dao/redis"
	"github.com/ChristinaBak/Oasa/db"
	"github.com/ChristinaBak/Oasa/metrics"
	"github.com/ChristinaBak/Oasa/models"
	"golang.org/x/sync/singleflight"
)

// ErrNoSnapshot is returned before the first successful source load.
var ErrNoSnapshot = errors.New("no snapshot loaded")

// DashboardCache memoizes dashboards per snapshot version and query.
type DashboardCache interface {
	GetDashboard(snapshotID string, query models.DashboardQuery) (*models.Dashboard, error)
	SaveDashboard(query models.DashboardQuery, d models.Dashboard) error
	PurgeStaleDashboards(currentID string) (int, error)
}

// DashboardService runs the filter and aggregation pipeline against the
// active snapshot. Identical concurrent queries share one computation.
type DashboardService struct {
	store   *SnapshotStore
	cache   DashboardCache
	metrics *metrics.Metrics
	limits  analytics.Limits
	group   singleflight.Group
}

func NewDashboardService(
	store *SnapshotStore,
	cache DashboardCache,
	m *metrics.Metrics,
	limits analytics.Limits) *DashboardService {

	return &DashboardService{
		store:   store,
		cache:   cache,
		metrics: m,
		limits:  limits,
	}
}

func (ds *DashboardService) snapshot() (*analytics.Snapshot, error) {
	snapshot := ds.store.Current()
	if snapshot == nil {
		return nil, ErrNoSnapshot
	}
	return snapshot, nil
}

// Dashboard returns every derived view for query.
func (ds *DashboardService) Dashboard(ctx context.Context, query models.DashboardQuery) (models.Dashboard, error) {
	snapshot, err := ds.snapshot()
	if err != nil {
		return models.Dashboard{}, err
	}

	if cached, err := ds.cache.GetDashboard(snapshot.ID, query); err == nil {
		ds.metrics.CacheHit()
		return *cached, nil
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		log.Printf("[DashboardService] Cache lookup failed: %v", err)
	}
	ds.metrics.CacheMiss()

	key := redis.DashboardKey(snapshot.ID, query)
	result := ds.group.DoChan(key, func() (interface{}, error) {
		started := time.Now()
		dashboard := analytics.BuildDashboard(snapshot, query, ds.limits)
		outcome := "ok"
		if dashboard.NoData {
			outcome = "no_data"
		}
		ds.metrics.ObserveRecompute(started, outcome)

		// A reload during the computation already purged this snapshot's keys.
		if ds.store.Current() != snapshot {
			return dashboard, nil
		}
		if err := ds.cache.SaveDashboard(query, dashboard); err != nil {
			log.Printf("[DashboardService] Failed to cache dashboard %s: %v", key, err)
		}
		return dashboard, nil
	})

	select {
	case <-ctx.Done():
		return models.Dashboard{}, ctx.Err()
	case res := <-result:
		if res.Err != nil {
			return models.Dashboard{}, res.Err
		}
		return res.Val.(models.Dashboard), nil
	}
}

// Options returns the filter choices of the active snapshot.
func (ds *DashboardService) Options() (models.FilterOptions, error) {
	snapshot, err := ds.snapshot()
	if err != nil {
		return models.FilterOptions{}, err
	}
	return snapshot.Options(), nil
}

// DataQuality is independent of any selection.
func (ds *DashboardService) DataQuality() (models.DataQuality, error) {
	snapshot, err := ds.snapshot()
	if err != nil {
		return models.DataQuality{}, err
	}
	return snapshot.DataQuality(), nil
}
