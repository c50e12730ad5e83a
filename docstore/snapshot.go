package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var (
	// ErrInvalidSnapshotJSON is returned when snapshot JSON data is malformed or invalid.
	ErrInvalidSnapshotJSON = errors.New("snapshot json is not valid")

	// ErrEmptySnapshotName is returned when an empty snapshot name is provided.
	ErrEmptySnapshotName = errors.New("snapshot name must not be empty")

	// ErrSavingSnapshotFailed is returned when the snapshot save operation fails.
	ErrSavingSnapshotFailed = errors.New("saving snapshot failed")

	// ErrLoadingSnapshotFailed is returned when the snapshot load operation fails.
	ErrLoadingSnapshotFailed = errors.New("loading snapshot failed")
)

// Snapshot is a serialized read model kept outside the document store, so it can still be
// served while the store is unreachable.
type Snapshot struct {
	Name      string          // e.g. "LibraryCollections"
	Data      json.RawMessage // serialized read model
	CreatedAt time.Time
}

// Validate ensures the snapshot has valid data for storage operations.
func (s Snapshot) Validate() error {
	if s.Name == "" {
		return ErrEmptySnapshotName
	}

	if !jsoniter.ConfigFastest.Valid(s.Data) {
		return ErrInvalidSnapshotJSON
	}

	return nil
}

// BuildSnapshot creates a new Snapshot with validation.
func BuildSnapshot(name string, data json.RawMessage, createdAt time.Time) (Snapshot, error) {
	snapshot := Snapshot{
		Name:      name,
		Data:      data,
		CreatedAt: createdAt,
	}

	if err := snapshot.Validate(); err != nil {
		return Snapshot{}, err
	}

	return snapshot, nil
}

// SnapshotCache stores the latest Snapshot per name.
// LoadSnapshot returns nil and no error on a cache miss.
type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, snapshot Snapshot) error
	LoadSnapshot(ctx context.Context, name string) (*Snapshot, error)
}
