package redis

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ChristinaBak/Oasa/db"
	"github.com/ChristinaBak/Oasa/models"
)

const DASHBOARD_KEY_PREFIX_V1 = "dashboard_v1"

// DASHBOARD_KEY_FORMAT_V1 is dashboard_v1:<snapshot id>:<query digest>.
const DASHBOARD_KEY_FORMAT_V1 = DASHBOARD_KEY_PREFIX_V1 + ":%s:%s"

// RedisDashboardDAO caches computed dashboards as JSON.
type RedisDashboardDAO struct {
	client db.RedisClient
	ttl    time.Duration
}

func NewRedisDashboardDAO(client db.RedisClient, ttl time.Duration) *RedisDashboardDAO {
	return &RedisDashboardDAO{client: client, ttl: ttl}
}

// QueryDigest hashes the canonical form of a query into a fixed-size key part.
func QueryDigest(query models.DashboardQuery) string {
	sum := sha256.Sum256([]byte(query.Canonical()))
	return hex.EncodeToString(sum[:16])
}

func DashboardKey(snapshotID string, query models.DashboardQuery) string {
	return fmt.Sprintf(DASHBOARD_KEY_FORMAT_V1, snapshotID, QueryDigest(query))
}

func (dao *RedisDashboardDAO) SaveDashboard(query models.DashboardQuery, d models.Dashboard) error {
	key := DashboardKey(d.SnapshotID, query)
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard %s: %w", key, err)
	}
	if err := dao.client.Set(key, string(data), dao.ttl); err != nil {
		return fmt.Errorf("failed to set dashboard in redis: %w", err)
	}
	return nil
}

// GetDashboard returns the cached dashboard; a miss wraps db.ErrKeyNotFound.
func (dao *RedisDashboardDAO) GetDashboard(snapshotID string, query models.DashboardQuery) (*models.Dashboard, error) {
	key := DashboardKey(snapshotID, query)
	str, err := dao.client.Get(key)
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard from redis: %w", err)
	}
	var d models.Dashboard
	if err := json.Unmarshal([]byte(str), &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dashboard JSON: %w", err)
	}
	return &d, nil
}

// PurgeStaleDashboards deletes every cached dashboard computed from a
// snapshot other than currentID, including those left by other processes.
func (dao *RedisDashboardDAO) PurgeStaleDashboards(currentID string) (int, error) {
	keys, err := dao.client.Keys(DASHBOARD_KEY_PREFIX_V1 + ":*")
	if err != nil {
		return 0, fmt.Errorf("failed to list dashboard keys: %w", err)
	}

	var stale []string
	for _, key := range keys {
		id, ok := keySnapshotID(key)
		if !ok || id != currentID {
			stale = append(stale, key)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	if err := dao.client.Del(stale...); err != nil {
		return 0, fmt.Errorf("failed to delete stale dashboards: %w", err)
	}
	log.Printf("[RedisDashboardDAO] Purged %d stale dashboards (current snapshot %s)", len(stale), currentID)
	return len(stale), nil
}

func keySnapshotID(key string) (string, bool) {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
