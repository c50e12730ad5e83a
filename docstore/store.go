package docstore

import "context"

// Reader is the read side of a document store.
type Reader interface {
	Get(ctx context.Context, collection CollectionString, id DocumentIDString) (Document, error)
	GetAll(ctx context.Context, collection CollectionString) (Documents, error)
	Query(ctx context.Context, query Query) (Documents, error)
}

// Writer is the write side of a document store. Every call is a separate write,
// there is no atomicity across calls.
type Writer interface {
	// Insert stores a new document and returns its id. An empty id is assigned by the store.
	Insert(ctx context.Context, document Document) (DocumentIDString, error)

	// Replace overwrites the full JSON of an existing document.
	Replace(ctx context.Context, document Document) error

	// UpdateFields merges top-level fields into an existing document.
	UpdateFields(ctx context.Context, collection CollectionString, id DocumentIDString, fields Fields) error

	Delete(ctx context.Context, collection CollectionString, id DocumentIDString) error
}

// DocumentStore combines Reader and Writer.
type DocumentStore interface {
	Reader
	Writer
}

// WriteKind distinguishes the operations of an atomic write batch.
type WriteKind int

const (
	WriteInsert WriteKind = iota
	WriteReplace
)

// Write is one element of an atomic write batch.
type Write struct {
	Kind     WriteKind
	Document Document
}

func InsertWrite(document Document) Write {
	return Write{Kind: WriteInsert, Document: document}
}

func ReplaceWrite(document Document) Write {
	return Write{Kind: WriteReplace, Document: document}
}

// AtomicWriter is implemented by stores that can apply several writes all-or-nothing.
//
// WriteAtomically returns the ids of all written documents in the order of the writes.
// If an insert target already exists or a replace target is missing, nothing is written
// and ErrAtomicWriteRejected is returned.
type AtomicWriter interface {
	WriteAtomically(ctx context.Context, writes ...Write) ([]DocumentIDString, error)
}
