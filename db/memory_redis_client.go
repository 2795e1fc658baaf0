package db

import (
	"context"
	"fmt"
	"log"
	"path"
	"sort"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryRedisClient keeps keys in process memory. It serves as the cache
// when no Redis address is configured and as the test double.
type MemoryRedisClient struct {
	data    map[string]memoryEntry
	mu      sync.RWMutex
	context context.Context
	now     func() time.Time
}

func NewMemoryRedisClient(ctx context.Context) *MemoryRedisClient {
	return &MemoryRedisClient{
		data:    make(map[string]memoryEntry),
		context: ctx,
		now:     time.Now,
	}
}

func (m *MemoryRedisClient) Set(key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.data[key] = entry
	return nil
}

func (m *MemoryRedisClient) Get(key string) (string, error) {
	m.mu.RLock()
	entry, exists := m.data[key]
	m.mu.RUnlock()
	if !exists || entry.expired(m.now()) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return entry.value, nil
}

func (m *MemoryRedisClient) GetContext() context.Context {
	return m.context
}

func (m *MemoryRedisClient) Ping() error {
	log.Println("[MemoryRedisClient] Ping successful")
	return nil
}

// Keys supports the glob subset of Redis patterns understood by path.Match.
func (m *MemoryRedisClient) Keys(pattern string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	now := m.now()
	var keys []string
	for key, entry := range m.data {
		if entry.expired(now) {
			continue
		}
		matched, err := path.Match(pattern, key)
		if err != nil {
			return nil, fmt.Errorf("invalid key pattern %q: %w", pattern, err)
		}
		if matched {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *MemoryRedisClient) Del(keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}
