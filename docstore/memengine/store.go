package memengine

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/docstore"
)

// DocumentStore keeps documents per collection in memory. It is safe for concurrent use.
type DocumentStore struct {
	mu          sync.RWMutex
	collections map[docstore.CollectionString]map[docstore.DocumentIDString]docstore.Document
	newID       func() string
	now         func() time.Time
}

// Option configures a DocumentStore.
type Option func(*DocumentStore)

// WithIDGenerator replaces the default UUID generator for inserts without id.
func WithIDGenerator(newID func() string) Option {
	return func(s *DocumentStore) {
		s.newID = newID
	}
}

// WithClock replaces time.Now for the UpdatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *DocumentStore) {
		s.now = now
	}
}

// NewDocumentStore creates an empty DocumentStore.
func NewDocumentStore(options ...Option) *DocumentStore {
	s := &DocumentStore{
		collections: make(map[docstore.CollectionString]map[docstore.DocumentIDString]docstore.Document),
		newID:       uuid.NewString,
		now:         time.Now,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Ping always succeeds.
func (s *DocumentStore) Ping(_ context.Context) error {
	return nil
}

func (s *DocumentStore) Get(_ context.Context, collection docstore.CollectionString, id docstore.DocumentIDString) (docstore.Document, error) {
	if id == "" {
		return docstore.Document{}, docstore.ErrEmptyDocumentID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.collections[collection][id]
	if !ok {
		return docstore.Document{}, docstore.ErrDocumentNotFound
	}

	return cloneDocument(doc), nil
}

func (s *DocumentStore) GetAll(ctx context.Context, collection docstore.CollectionString) (docstore.Documents, error) {
	return s.Query(ctx, docstore.BuildQuery(collection).Finalize())
}

func (s *DocumentStore) Query(_ context.Context, query docstore.Query) (docstore.Documents, error) {
	if query.Collection() == "" {
		return nil, docstore.ErrEmptyCollection
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	documents := make(docstore.Documents, 0)
	for _, doc := range s.collections[query.Collection()] {
		if matches(doc.DataJSON, query.Predicates()) {
			documents = append(documents, cloneDocument(doc))
		}
	}

	slices.SortFunc(documents, func(a, b docstore.Document) int {
		for _, ordering := range query.Orderings() {
			c := compareFields(a.DataJSON, b.DataJSON, ordering.Field())
			if ordering.Descending() {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID, b.ID)
	})

	if limit := int(query.Limit()); limit > 0 && len(documents) > limit {
		documents = documents[:limit]
	}

	return documents, nil
}

func (s *DocumentStore) Insert(_ context.Context, document docstore.Document) (docstore.DocumentIDString, error) {
	if document.Collection == "" {
		return "", docstore.ErrEmptyCollection
	}

	if document.ID == "" {
		document = document.WithID(s.newID())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[document.Collection]
	if !ok {
		docs = make(map[docstore.DocumentIDString]docstore.Document)
		s.collections[document.Collection] = docs
	}

	if _, exists := docs[document.ID]; exists {
		return "", docstore.ErrDuplicateDocumentID
	}

	document.UpdatedAt = s.now()
	docs[document.ID] = cloneDocument(document)

	return document.ID, nil
}

func (s *DocumentStore) Replace(_ context.Context, document docstore.Document) error {
	if document.ID == "" {
		return docstore.ErrEmptyDocumentID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.collections[document.Collection][document.ID]; !exists {
		return docstore.ErrDocumentNotFound
	}

	document.UpdatedAt = s.now()
	s.collections[document.Collection][document.ID] = cloneDocument(document)

	return nil
}

func (s *DocumentStore) UpdateFields(
	_ context.Context,
	collection docstore.CollectionString,
	id docstore.DocumentIDString,
	fields docstore.Fields,
) error {
	if id == "" {
		return docstore.ErrEmptyDocumentID
	}

	if len(fields) == 0 {
		return docstore.ErrNoFieldsToUpdate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, exists := s.collections[collection][id]
	if !exists {
		return docstore.ErrDocumentNotFound
	}

	var data map[string]any
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(doc.DataJSON, &data); err != nil {
		return err
	}

	maps.Copy(data, fields)

	merged, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(data)
	if err != nil {
		return err
	}

	doc.DataJSON = merged
	doc.UpdatedAt = s.now()
	s.collections[collection][id] = doc

	return nil
}

func (s *DocumentStore) Delete(_ context.Context, collection docstore.CollectionString, id docstore.DocumentIDString) error {
	if id == "" {
		return docstore.ErrEmptyDocumentID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.collections[collection][id]; !exists {
		return docstore.ErrDocumentNotFound
	}

	delete(s.collections[collection], id)

	return nil
}

func cloneDocument(doc docstore.Document) docstore.Document {
	doc.DataJSON = slices.Clone(doc.DataJSON)
	return doc
}

func matches(data []byte, predicates []docstore.Predicate) bool {
	for _, predicate := range predicates {
		text, ok := fieldText(data, predicate.Field())
		if !ok || text != predicate.Val() {
			return false
		}
	}

	return true
}

// fieldText renders a top-level field the way Postgres' ->> operator does. JSON null and
// missing fields have no text form.
func fieldText(data []byte, field docstore.FieldNameString) (string, bool) {
	value := jsoniter.ConfigCompatibleWithStandardLibrary.Get(data, field)

	switch value.ValueType() {
	case jsoniter.StringValue:
		return value.ToString(), true
	case jsoniter.BoolValue:
		return strconv.FormatBool(value.ToBool()), true
	case jsoniter.NumberValue:
		return strconv.FormatFloat(value.ToFloat64(), 'f', -1, 64), true
	case jsoniter.ObjectValue, jsoniter.ArrayValue:
		return value.ToString(), true
	default:
		return "", false
	}
}

// compareFields orders missing values after present ones, numbers numerically and everything else by text.
func compareFields(a, b []byte, field docstore.FieldNameString) int {
	va := jsoniter.ConfigCompatibleWithStandardLibrary.Get(a, field)
	vb := jsoniter.ConfigCompatibleWithStandardLibrary.Get(b, field)

	aMissing := va.ValueType() == jsoniter.InvalidValue || va.ValueType() == jsoniter.NilValue
	bMissing := vb.ValueType() == jsoniter.InvalidValue || vb.ValueType() == jsoniter.NilValue

	switch {
	case aMissing && bMissing:
		return 0
	case aMissing:
		return 1
	case bMissing:
		return -1
	}

	if va.ValueType() == jsoniter.NumberValue && vb.ValueType() == jsoniter.NumberValue {
		return cmp.Compare(va.ToFloat64(), vb.ToFloat64())
	}

	at, _ := fieldText(a, field)
	bt, _ := fieldText(b, field)

	return strings.Compare(at, bt)
}

var _ docstore.DocumentStore = (*DocumentStore)(nil)
