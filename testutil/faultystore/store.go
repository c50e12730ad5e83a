package faultystore

import (
	"context"
	"errors"
	"sync"

	"github.com/AntonStoeckl/library-lending-go/docstore"
)

// Operation names a docstore call.
type Operation string

const (
	OpGet             Operation = "get"
	OpGetAll          Operation = "get_all"
	OpQuery           Operation = "query"
	OpInsert          Operation = "insert"
	OpReplace         Operation = "replace"
	OpUpdateFields    Operation = "update_fields"
	OpDelete          Operation = "delete"
	OpWriteAtomically Operation = "write_atomically"
	AnyCollection               = "*"
	unlimitedFailures           = -1
)

// Call is one recorded store call.
type Call struct {
	Op         Operation
	Collection docstore.CollectionString
	ID         docstore.DocumentIDString
	Fields     docstore.Fields
}

type failureRule struct {
	op         Operation
	collection docstore.CollectionString
	err        error
	remaining  int
	skip       int
}

// Store records and optionally fails calls to the wrapped store.
type Store struct {
	inner docstore.DocumentStore
	mu    sync.Mutex
	calls []Call
	rules []*failureRule
}

func Wrap(inner docstore.DocumentStore) *Store {
	return &Store{inner: inner}
}

// FailOn makes every call of op on collection fail with err. Use AnyCollection to match all collections.
func (s *Store) FailOn(op Operation, collection docstore.CollectionString, err error) *Store {
	return s.FailTimes(op, collection, err, unlimitedFailures)
}

// FailTimes makes the next n calls of op on collection fail with err.
func (s *Store) FailTimes(op Operation, collection docstore.CollectionString, err error, n int) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules = append(s.rules, &failureRule{op: op, collection: collection, err: err, remaining: n})

	return s
}

// FailAfter lets the first passes calls of op on collection through and fails every later one with err.
func (s *Store) FailAfter(op Operation, collection docstore.CollectionString, err error, passes int) *Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules = append(s.rules, &failureRule{op: op, collection: collection, err: err, remaining: unlimitedFailures, skip: passes})

	return s
}

// Calls returns all recorded calls in order.
func (s *Store) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Call(nil), s.calls...)
}

// Writes returns the recorded mutating calls in order.
func (s *Store) Writes() []Call {
	var writes []Call
	for _, call := range s.Calls() {
		switch call.Op {
		case OpInsert, OpReplace, OpUpdateFields, OpDelete, OpWriteAtomically:
			writes = append(writes, call)
		}
	}

	return writes
}

func (s *Store) Ping(ctx context.Context) error {
	if pinger, ok := s.inner.(interface{ Ping(context.Context) error }); ok {
		return pinger.Ping(ctx)
	}

	return nil
}

func (s *Store) Get(ctx context.Context, collection docstore.CollectionString, id docstore.DocumentIDString) (docstore.Document, error) {
	if err := s.record(Call{Op: OpGet, Collection: collection, ID: id}); err != nil {
		return docstore.Document{}, err
	}

	return s.inner.Get(ctx, collection, id)
}

func (s *Store) GetAll(ctx context.Context, collection docstore.CollectionString) (docstore.Documents, error) {
	if err := s.record(Call{Op: OpGetAll, Collection: collection}); err != nil {
		return nil, err
	}

	return s.inner.GetAll(ctx, collection)
}

func (s *Store) Query(ctx context.Context, query docstore.Query) (docstore.Documents, error) {
	if err := s.record(Call{Op: OpQuery, Collection: query.Collection()}); err != nil {
		return nil, err
	}

	return s.inner.Query(ctx, query)
}

func (s *Store) Insert(ctx context.Context, document docstore.Document) (docstore.DocumentIDString, error) {
	if err := s.record(Call{Op: OpInsert, Collection: document.Collection, ID: document.ID}); err != nil {
		return "", err
	}

	return s.inner.Insert(ctx, document)
}

func (s *Store) Replace(ctx context.Context, document docstore.Document) error {
	if err := s.record(Call{Op: OpReplace, Collection: document.Collection, ID: document.ID}); err != nil {
		return err
	}

	return s.inner.Replace(ctx, document)
}

func (s *Store) UpdateFields(
	ctx context.Context,
	collection docstore.CollectionString,
	id docstore.DocumentIDString,
	fields docstore.Fields,
) error {
	if err := s.record(Call{Op: OpUpdateFields, Collection: collection, ID: id, Fields: fields}); err != nil {
		return err
	}

	return s.inner.UpdateFields(ctx, collection, id, fields)
}

func (s *Store) Delete(ctx context.Context, collection docstore.CollectionString, id docstore.DocumentIDString) error {
	if err := s.record(Call{Op: OpDelete, Collection: collection, ID: id}); err != nil {
		return err
	}

	return s.inner.Delete(ctx, collection, id)
}

func (s *Store) record(call Call) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, call)

	for _, rule := range s.rules {
		if rule.op != call.Op || (rule.collection != AnyCollection && rule.collection != call.Collection) {
			continue
		}

		if rule.remaining == 0 {
			continue
		}

		if rule.skip > 0 {
			rule.skip--
			continue
		}

		if rule.remaining > 0 {
			rule.remaining--
		}

		return rule.err
	}

	return nil
}

// AtomicStore is a Store that also implements docstore.AtomicWriter.
type AtomicStore struct {
	*Store
}

func WrapAtomic(inner docstore.DocumentStore) *AtomicStore {
	return &AtomicStore{Store: Wrap(inner)}
}

// WriteAtomically checks that every replace target exists and no insert target exists, then applies the writes.
// The recorded call carries the collection of the first write.
func (s *AtomicStore) WriteAtomically(ctx context.Context, writes ...docstore.Write) ([]docstore.DocumentIDString, error) {
	if len(writes) == 0 {
		return nil, docstore.ErrNoWritesSupplied
	}

	if err := s.record(Call{Op: OpWriteAtomically, Collection: writes[0].Document.Collection, ID: writes[0].Document.ID}); err != nil {
		return nil, err
	}

	for _, write := range writes {
		_, err := s.inner.Get(ctx, write.Document.Collection, write.Document.ID)
		exists := err == nil

		if err != nil && !errors.Is(err, docstore.ErrDocumentNotFound) && !errors.Is(err, docstore.ErrEmptyDocumentID) {
			return nil, err
		}

		if (write.Kind == docstore.WriteReplace) != exists {
			return nil, docstore.ErrAtomicWriteRejected
		}
	}

	ids := make([]docstore.DocumentIDString, 0, len(writes))
	for _, write := range writes {
		if write.Kind == docstore.WriteReplace {
			if err := s.inner.Replace(ctx, write.Document); err != nil {
				return nil, err
			}
			ids = append(ids, write.Document.ID)
			continue
		}

		id, err := s.inner.Insert(ctx, write.Document)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, nil
}

var _ docstore.DocumentStore = (*Store)(nil)
var _ docstore.AtomicWriter = (*AtomicStore)(nil)
