package docstore

import (
	"errors"
)

var ErrEmptyTableNameSupplied = errors.New("empty documents table name supplied")
var ErrNilDatabaseConnection = errors.New("database connection must not be nil")

var (
	// ErrEmptyCollection is returned when a document or query does not name a collection.
	ErrEmptyCollection = errors.New("collection must not be empty")

	// ErrEmptyDocumentID is returned when an operation needs a document id but none was supplied.
	ErrEmptyDocumentID = errors.New("document id must not be empty")

	// ErrDocumentNotFound is returned when no document exists for the given collection and id.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDuplicateDocumentID is returned when an insert collides with an existing document.
	ErrDuplicateDocumentID = errors.New("document id already exists")

	// ErrNoFieldsToUpdate is returned when a field update carries no fields.
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// ErrNoWritesSupplied is returned when an atomic write batch is empty.
	ErrNoWritesSupplied = errors.New("no writes supplied")

	// ErrCreatingSchemaFailed is returned when the storage schema could not be created.
	ErrCreatingSchemaFailed = errors.New("creating schema failed")

	// ErrAtomicWriteRejected is returned when an atomic write batch was not applied because one of its preconditions failed.
	ErrAtomicWriteRejected = errors.New("atomic write rejected: precondition failed")
)

// CollectionString is a type alias for string, naming a collection of documents.
type CollectionString = string

// DocumentIDString is a type alias for string, holding the opaque id of a document.
type DocumentIDString = string

// FieldNameString is a type alias for string, naming a top-level JSON field of a document.
type FieldNameString = string
