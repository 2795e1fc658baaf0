package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ChristinaBak/Oasa/analytics"
	"github.com/ChristinaBak/Oasa/metrics"
)

// SnapshotRefresherService reloads the source into a new snapshot, either on
// demand or periodically, and swaps it in atomically.
type SnapshotRefresherService struct {
	loader  *SourceLoader
	store   *SnapshotStore
	cache   DashboardCache
	metrics *metrics.Metrics
	mu      sync.Mutex
}

func NewSnapshotRefresherService(
	loader *SourceLoader,
	store *SnapshotStore,
	cache DashboardCache,
	m *metrics.Metrics) *SnapshotRefresherService {

	return &SnapshotRefresherService{
		loader:  loader,
		store:   store,
		cache:   cache,
		metrics: m,
	}
}

// Reload builds a new snapshot when the source changed (or force is set) and
// returns the active snapshot together with whether it was replaced.
// On error the previous snapshot stays active.
func (sr *SnapshotRefresherService) Reload(ctx context.Context, force bool) (*analytics.Snapshot, bool, error) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	table, changed, err := sr.loader.Load(ctx, force)
	if err != nil {
		sr.metrics.SnapshotReloadFailed()
		return sr.store.Current(), false, fmt.Errorf("failed to load source: %w", err)
	}
	if !changed {
		sr.metrics.SnapshotUnchanged()
		return sr.store.Current(), false, nil
	}

	snapshot := analytics.NewSnapshot(sr.loader.Location(), sr.store.NextVersion(), table)
	previous := sr.store.Swap(snapshot)
	sr.metrics.SnapshotLoaded(snapshot.Version, snapshot.Len())
	log.Printf("[SnapshotRefresherService] Snapshot v%d active: %d records (%d raw rows dropped)",
		snapshot.Version, snapshot.Len(), len(table.Rows)-snapshot.Len())

	if previous == nil {
		log.Printf("[SnapshotRefresherService] First snapshot %s, dropping dashboards cached by earlier runs", snapshot.ID)
	}
	if _, err := sr.cache.PurgeStaleDashboards(snapshot.ID); err != nil {
		log.Printf("[SnapshotRefresherService] Failed to purge stale dashboards: %v", err)
	}
	return snapshot, true, nil
}

// StartPeriodicJob launches the background reload loop at the given interval.
// It stops when ctx is canceled.
func (sr *SnapshotRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Println("[SnapshotRefresherService] Periodic reload disabled.")
		return
	}
	go sr.startPeriodicJob(ctx, interval)
}

func (sr *SnapshotRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[SnapshotRefresherService] Stopping periodic reload job.")
			return
		case <-ticker.C:
			log.Println("[SnapshotRefresherService] Running periodic snapshot reload job.")
			if _, changed, err := sr.Reload(ctx, false); err != nil {
				log.Printf("[SnapshotRefresherService] Reload returned error: %v", err)
			} else if changed {
				log.Println("[SnapshotRefresherService] Reload completed successfully.")
			}
		}
	}
}
