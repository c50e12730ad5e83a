// Package rediscache provides a docstore.SnapshotCache on top of Redis.
//
// Snapshots are stored as one hash per name with the fields "data" and "created_at".
// An optional TTL bounds how long a snapshot may be served while the document store is unreachable.
package rediscache
