package memengine

import (
	"context"
	"slices"
	"sync"

	"github.com/AntonStoeckl/library-lending-go/docstore"
)

// SnapshotCache keeps the latest snapshot per name in memory.
type SnapshotCache struct {
	mu        sync.RWMutex
	snapshots map[string]docstore.Snapshot
}

func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{snapshots: make(map[string]docstore.Snapshot)}
}

func (c *SnapshotCache) SaveSnapshot(_ context.Context, snapshot docstore.Snapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot.Data = slices.Clone(snapshot.Data)
	c.snapshots[snapshot.Name] = snapshot

	return nil
}

// LoadSnapshot returns nil without error when no snapshot with that name was saved.
func (c *SnapshotCache) LoadSnapshot(_ context.Context, name string) (*docstore.Snapshot, error) {
	if name == "" {
		return nil, docstore.ErrEmptySnapshotName
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot, ok := c.snapshots[name]
	if !ok {
		return nil, nil //nolint:nilnil // a miss is not an error
	}

	snapshot.Data = slices.Clone(snapshot.Data)

	return &snapshot, nil
}

var _ docstore.SnapshotCache = (*SnapshotCache)(nil)
