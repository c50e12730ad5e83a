// Package shell is the imperative shell around the pure lending core in package core.
//
// It maps documents of the document store to domain models and back, checks the access gate
// (permissions and connectivity) before any mutation, and defines the handler contracts and
// observability helpers the vertical slices under library/features share.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
