// Package faultystore wraps a docstore.DocumentStore for handler tests.
//
// It records every call in order and fails selected operations on request, which is how the tests
// drive the interrupted-borrow and interrupted-return paths. AtomicStore additionally offers
// docstore.AtomicWriter on top of any store, checking all preconditions before the first write.
package faultystore
