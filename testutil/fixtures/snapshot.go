package fixtures

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/docstore/memengine"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell/snapshot"
)

// SnapshotLoader seeds a fresh in-memory store with library and returns a loader reading from it.
func SnapshotLoader(ctx context.Context, t *testing.T, library core.Collections, options ...snapshot.Option) *snapshot.Loader {
	t.Helper()

	store := memengine.NewDocumentStore()
	Seed(ctx, t, store, library)

	loader, err := snapshot.NewLoader(store, options...)
	require.NoError(t, err, "loader should be created")

	return loader
}

// StubLoader returns a fixed snapshot or error. It implements shell.LoadsLibrarySnapshot.
type StubLoader struct {
	Snapshot shell.LibrarySnapshot
	Err      error
}

func (l StubLoader) Load(_ context.Context) (shell.LibrarySnapshot, error) {
	return l.Snapshot, l.Err
}
