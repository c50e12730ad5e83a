// Package core contains the pure domain of the school library:
// the catalog (book templates and their physical copies), the student roster
// and the loans (borrowed books) linking them.
//
// Everything in here is a function over in-memory snapshots. Nothing talks to a store,
// reads the clock or logs. The imperative shell loads a Collections snapshot,
// calls into core to decide, and writes the outcome.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
