// Package docstore provides core abstractions and types for a collection-oriented document store.
//
// This package defines the fundamental interfaces and types used across the
// different document store implementations, including queries, documents,
// snapshots and common error definitions.
//
// Documents live in named collections and are keyed by opaque string ids.
// Their payload is a JSON object which the store treats as opaque except for
// query predicates and ordering, which address top-level JSON fields.
//
// Key types:
//   - Document: a single JSON document with its collection and id
//   - Query: equality predicates, ordering and an optional limit for one collection
//   - Snapshot: a serialized read model that can be served while the store is unreachable
//
// Common usage pattern:
//
//	query := docstore.BuildQuery("borrowedBooks").
//		Where(docstore.P("studentId", studentID), docstore.PBool("isReturned", false)).
//		OrderByDescending("borrowDate").
//		Limit(10).
//		Finalize()
//
//	docs, err := store.Query(ctx, query)
//	if err != nil {
//		// handle error
//	}
//
//	doc, err := docstore.BuildDocumentForInsert("borrowedBooks", payloadJSON)
//	id, err := store.Insert(ctx, doc)
package docstore
