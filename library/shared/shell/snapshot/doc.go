// Package snapshot loads the library collections for the derived views.
//
// While the store is reachable, Loader reads all four collections and keeps a copy in a
// docstore.SnapshotCache (Redis via docstore/rediscache, or in-process via docstore/memengine).
// While offline, or when the store read fails, the last cached copy is served with Stale set.
// Without a cached copy an offline load fails with core.ErrOffline.
//
// Every loaded snapshot has its copy availability recomputed from the open loans,
// so the derived views never show a copy flag that an interrupted borrow or return left behind.
// The stored documents are not changed, see the reconcileavailability command for that.
package snapshot
