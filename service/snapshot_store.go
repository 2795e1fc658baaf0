package services

import (
	"sync/atomic"

	"github.com/ChristinaBak/Oasa/analytics"
)

// SnapshotStore holds the active snapshot. Readers take the pointer once per
// request and keep using it even if a reload swaps in a newer snapshot.
type SnapshotStore struct {
	current atomic.Pointer[analytics.Snapshot]
	version atomic.Uint64
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

// Current returns the active snapshot, or nil before the first load.
func (s *SnapshotStore) Current() *analytics.Snapshot {
	return s.current.Load()
}

// NextVersion reserves a version number for a snapshot about to be built.
func (s *SnapshotStore) NextVersion() uint64 {
	return s.version.Add(1)
}

// Swap installs snapshot and returns the one it replaced.
func (s *SnapshotStore) Swap(snapshot *analytics.Snapshot) *analytics.Snapshot {
	return s.current.Swap(snapshot)
}
