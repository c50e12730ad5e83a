package docstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/docstore"
)

//nolint:funlen
func Test_QueryBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() docstore.Query
		validate func(t *testing.T, q docstore.Query)
	}{
		{
			name: "collection_only",
			build: func() docstore.Query {
				return docstore.BuildQuery("students").Finalize()
			},
			validate: func(t *testing.T, q docstore.Query) {
				assert.Equal(t, "students", q.Collection())
				assert.Empty(t, q.Predicates())
				assert.Empty(t, q.Orderings())
				assert.Equal(t, uint(0), q.Limit())
			},
		},
		{
			name: "predicates_are_sorted_and_deduplicated",
			build: func() docstore.Query {
				return docstore.BuildQuery("borrowedBooks").
					Where(
						docstore.PBool("isReturned", false),
						docstore.P("studentId", "s1"),
						docstore.PBool("isReturned", false),
					).
					Finalize()
			},
			validate: func(t *testing.T, q docstore.Query) {
				assert.Len(t, q.Predicates(), 2)
				assert.Equal(t, "isReturned", q.Predicates()[0].Field())
				assert.Equal(t, "false", q.Predicates()[0].Val())
				assert.Equal(t, "studentId", q.Predicates()[1].Field())
				assert.Equal(t, "s1", q.Predicates()[1].Val())
			},
		},
		{
			name: "empty_field_predicates_are_dropped",
			build: func() docstore.Query {
				return docstore.BuildQuery("bookCopies").
					Where(docstore.P("", "x"), docstore.PInt("bookId", 7)).
					Finalize()
			},
			validate: func(t *testing.T, q docstore.Query) {
				assert.Len(t, q.Predicates(), 1)
				assert.Equal(t, "bookId", q.Predicates()[0].Field())
				assert.Equal(t, "7", q.Predicates()[0].Val())
			},
		},
		{
			name: "ordering_and_limit",
			build: func() docstore.Query {
				return docstore.BuildQuery("borrowedBooks").
					Where(docstore.P("studentId", "s1")).
					OrderByDescending("borrowDate").
					ThenBy("copyId").
					ThenBy("borrowDate").
					Limit(5).
					Finalize()
			},
			validate: func(t *testing.T, q docstore.Query) {
				assert.Len(t, q.Orderings(), 2, "duplicate ordering fields should be ignored")
				assert.Equal(t, "borrowDate", q.Orderings()[0].Field())
				assert.True(t, q.Orderings()[0].Descending())
				assert.Equal(t, "copyId", q.Orderings()[1].Field())
				assert.False(t, q.Orderings()[1].Descending())
				assert.Equal(t, uint(5), q.Limit())
			},
		},
		{
			name: "limit_without_predicates",
			build: func() docstore.Query {
				return docstore.BuildQuery("bookTemplates").Limit(1).Finalize()
			},
			validate: func(t *testing.T, q docstore.Query) {
				assert.Empty(t, q.Predicates())
				assert.Equal(t, uint(1), q.Limit())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}
