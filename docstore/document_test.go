package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_BuildDocument_ErrorCases(t *testing.T) {
	tests := []struct {
		name        string
		collection  string
		id          string
		dataJSON    []byte
		expectedErr error
	}{
		{
			name:        "empty collection",
			collection:  "",
			id:          "id-1",
			dataJSON:    []byte(`{"a": 1}`),
			expectedErr: ErrEmptyCollection,
		},
		{
			name:        "empty id",
			collection:  "students",
			id:          "",
			dataJSON:    []byte(`{"a": 1}`),
			expectedErr: ErrEmptyDocumentID,
		},
		{
			name:        "invalid json",
			collection:  "students",
			id:          "id-1",
			dataJSON:    []byte(`{"a": json}`),
			expectedErr: ErrInvalidDocumentJSON,
		},
		{
			name:        "json array instead of object",
			collection:  "students",
			id:          "id-1",
			dataJSON:    []byte(`[1, 2]`),
			expectedErr: ErrInvalidDocumentJSON,
		},
		{
			name:        "nil json",
			collection:  "students",
			id:          "id-1",
			dataJSON:    nil,
			expectedErr: ErrInvalidDocumentJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildDocument(tt.collection, tt.id, tt.dataJSON)
			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_BuildDocumentForInsert_AllowsEmptyID(t *testing.T) {
	doc, err := BuildDocumentForInsert("students", []byte(`{"name": "Ayşe"}`))

	assert.NoError(t, err)
	assert.Empty(t, doc.ID)
	assert.Equal(t, "students", doc.Collection)
	assert.Equal(t, "id-9", doc.WithID("id-9").ID)
}

func Test_MarshalFields(t *testing.T) {
	_, err := MarshalFields(Fields{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)

	fieldsJSON, err := MarshalFields(Fields{"isAvailable": false})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"isAvailable": false}`, string(fieldsJSON))
}

func Test_BuildSnapshot_Validation(t *testing.T) {
	_, err := BuildSnapshot("", []byte(`{}`), time.Now())
	assert.ErrorIs(t, err, ErrEmptySnapshotName)

	_, err = BuildSnapshot("LibraryCollections", []byte(`{broken`), time.Now())
	assert.ErrorIs(t, err, ErrInvalidSnapshotJSON)

	snapshot, err := BuildSnapshot("LibraryCollections", []byte(`{"students": []}`), time.Unix(0, 0))
	assert.NoError(t, err)
	assert.Equal(t, "LibraryCollections", snapshot.Name)
}
