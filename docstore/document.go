package docstore

import (
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var ErrInvalidDocumentJSON = errors.New("document json is not a valid json object")
var ErrInvalidFieldsJSON = errors.New("fields can not be marshaled to json")

// Documents is an alias type for a slice of Document.
type Documents = []Document

// Fields holds top-level JSON fields for a partial update.
type Fields = map[FieldNameString]any

// Document is a DTO (data transfer object) used by the document store to write documents and read them back.
//
// It is built on scalars to be completely agnostic of the domain models in the client code.
//
// While its properties are exported, it should only be constructed with the supplied factory methods:
//   - BuildDocument
//   - BuildDocumentForInsert
type Document struct {
	Collection CollectionString
	ID         DocumentIDString
	DataJSON   []byte
	UpdatedAt  time.Time
}

// BuildDocument is a factory method for a Document with a known id, e.g. for Replace.
//
// Returns an error if the collection or id is empty or dataJSON is not a JSON object.
func BuildDocument(collection CollectionString, id DocumentIDString, dataJSON []byte) (Document, error) {
	if id == "" {
		return Document{}, ErrEmptyDocumentID
	}

	return buildDocument(collection, id, dataJSON)
}

// BuildDocumentForInsert is a factory method for a Document whose id will be assigned by the store.
//
// Returns an error if the collection is empty or dataJSON is not a JSON object.
func BuildDocumentForInsert(collection CollectionString, dataJSON []byte) (Document, error) {
	return buildDocument(collection, "", dataJSON)
}

func buildDocument(collection CollectionString, id DocumentIDString, dataJSON []byte) (Document, error) {
	if collection == "" {
		return Document{}, ErrEmptyCollection
	}

	if !isJSONObject(dataJSON) {
		return Document{}, ErrInvalidDocumentJSON
	}

	return Document{
		Collection: collection,
		ID:         id,
		DataJSON:   dataJSON,
	}, nil
}

// WithID returns a copy of the Document carrying the given id.
func (d Document) WithID(id DocumentIDString) Document {
	d.ID = id
	return d
}

// MarshalFields serializes Fields into a JSON object for a partial update.
func MarshalFields(fields Fields) ([]byte, error) {
	if len(fields) == 0 {
		return nil, ErrNoFieldsToUpdate
	}

	fieldsJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(fields)
	if err != nil {
		return nil, errors.Join(ErrInvalidFieldsJSON, err)
	}

	return fieldsJSON, nil
}

func isJSONObject(data []byte) bool {
	if !jsoniter.ConfigFastest.Valid(data) {
		return false
	}

	return jsoniter.ConfigFastest.Get(data).ValueType() == jsoniter.ObjectValue
}
