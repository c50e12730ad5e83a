package shell_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/docstore/memengine"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

func Test_LoanDocument_StoresOpenLoanWithNullReturnDate(t *testing.T) {
	// arrange
	loan := core.BorrowedBook{
		CopyID:     "copy-1",
		StudentID:  "student-1",
		BorrowDate: time.Date(2024, 1, 1, 9, 30, 0, 123456789, time.UTC),
		BorrowDays: 14,
	}

	// act
	document, err := shell.LoanDocument(loan)

	// assert
	require.NoError(t, err)
	assert.Equal(t, shell.CollectionBorrowedBooks, document.Collection)
	assert.Empty(t, document.ID, "Should build a document for insert")
	assert.JSONEq(t, `{
		"copyId": "copy-1",
		"studentId": "student-1",
		"borrowDate": "2024-01-01T09:30:00.123Z",
		"borrowDays": 14,
		"isReturned": false,
		"returnDate": null
	}`, string(document.DataJSON))
}

func Test_LoanFromDocument_ReadsReturnedLoan(t *testing.T) {
	// arrange
	document, err := docstore.BuildDocument(shell.CollectionBorrowedBooks, "loan-1", []byte(`{
		"copyId": "copy-1",
		"studentId": "student-1",
		"borrowDate": "2024-01-01T09:30:00.000Z",
		"borrowDays": 14,
		"isReturned": true,
		"returnDate": "2024-01-10T12:00:00+03:00"
	}`))
	require.NoError(t, err)

	// act
	loan, err := shell.LoanFromDocument(document)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "loan-1", loan.ID)
	assert.True(t, loan.IsReturned)
	require.NotNil(t, loan.ReturnDate)
	assert.Equal(t, time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC), *loan.ReturnDate)
	assert.Equal(t, time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC), loan.DueDate())
}

func Test_LoanFromDocument_RejectsBrokenBorrowDate(t *testing.T) {
	document, err := docstore.BuildDocument(shell.CollectionBorrowedBooks, "loan-1", []byte(`{"borrowDate": "yesterday"}`))
	require.NoError(t, err)

	_, err = shell.LoanFromDocument(document)

	assert.ErrorIs(t, err, shell.ErrMappingFromDocumentFailed)
}

func Test_TemplateDocument_KeepsLifecycle(t *testing.T) {
	// arrange
	deletedAt := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	template := core.BookTemplate{ID: "tpl-1", Title: "Suç ve Ceza", Lifecycle: core.Deleted(deletedAt)}

	// act
	document, err := shell.TemplateDocument(template)
	require.NoError(t, err)
	mapped, err := shell.TemplateFromDocument(document)

	// assert
	require.NoError(t, err)
	assert.Contains(t, string(document.DataJSON), `"isDeleted":true`)
	assert.Contains(t, string(document.DataJSON), `"deletedAt":"2024-03-05T08:00:00.000Z"`)
	at, deleted := mapped.Lifecycle.DeletedAt()
	assert.True(t, deleted)
	assert.Equal(t, deletedAt, at)
}

func Test_StudentFromDocument_LegacyDeletedFlagWithoutTimestamp(t *testing.T) {
	document, err := docstore.BuildDocument(shell.CollectionStudents, "st-1", []byte(`{"name": "Ayşe", "isDeleted": true}`))
	require.NoError(t, err)

	student, err := shell.StudentFromDocument(document)

	require.NoError(t, err)
	assert.True(t, student.Lifecycle.IsDeleted())
}

func Test_LifecycleUpdate(t *testing.T) {
	assert.Equal(t, docstore.Fields{"isDeleted": false, "deletedAt": nil}, shell.LifecycleUpdate(core.Active()))

	fields := shell.LifecycleUpdate(core.Deleted(time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, true, fields["isDeleted"])
	assert.Equal(t, "2024-03-05T08:00:00.000Z", fields["deletedAt"])
}

func Test_LoadCollections_ReadsAllFourCollections(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewDocumentStore()
	templateID := insert(t, store, shell.TemplateDocument, core.BookTemplate{Title: "Kürk Mantolu Madonna"})
	copyID := insert(t, store, shell.CopyDocument, core.BookCopy{BookID: 1, CopyNumber: 1, Barcode: "LIB001001", BookTemplateID: templateID})
	studentID := insert(t, store, shell.StudentDocument, core.Student{Name: "Ali", StudentNumber: "20240001"})
	insert(t, store, shell.LoanDocument, core.BorrowedBook{CopyID: copyID, StudentID: studentID, BorrowDate: time.Now(), BorrowDays: 14})

	// act
	collections, err := shell.LoadCollections(ctx, store)

	// assert
	require.NoError(t, err)
	assert.Len(t, collections.Templates, 1)
	assert.Len(t, collections.Copies, 1)
	assert.Len(t, collections.Students, 1)
	assert.Len(t, collections.Loans, 1)
	assert.Equal(t, templateID, collections.Copies[0].BookTemplateID)
	assert.Len(t, collections.ActiveLoansOfStudent(studentID), 1)
}

func Test_LoadCollections_ReportsBrokenDocumentAsStoreFailure(t *testing.T) {
	// arrange
	ctx := context.Background()
	store := memengine.NewDocumentStore()
	document, err := docstore.BuildDocument(shell.CollectionBorrowedBooks, "loan-1", []byte(`{"borrowDate": "yesterday"}`))
	require.NoError(t, err)
	_, err = store.Insert(ctx, document)
	require.NoError(t, err)

	// act
	_, err = shell.LoadCollections(ctx, store)

	// assert
	assert.ErrorIs(t, err, shell.ErrMappingFromDocumentFailed)
	assert.ErrorIs(t, err, core.ErrStoreFailure)
	assert.Equal(t, core.FailureReasonStoreFailure, core.FailureReason(err))
}

func Test_EncodeCollections_DecodesToTheSameCollections(t *testing.T) {
	// arrange
	returned := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	collections := core.Collections{
		Templates: []core.BookTemplate{{ID: "tpl-1", Title: "İnce Memed", Category: "Roman"}},
		Copies:    []core.BookCopy{{ID: "copy-1", BookID: 1, CopyNumber: 1, Barcode: "LIB001001", BookTemplateID: "tpl-1", Lifecycle: core.Deleted(returned)}},
		Students:  []core.Student{{ID: "st-1", Name: "Ayşe", StudentNumber: "20240001"}},
		Loans: []core.BorrowedBook{{
			ID: "loan-1", CopyID: "copy-1", StudentID: "st-1",
			BorrowDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), BorrowDays: 14,
			IsReturned: true, ReturnDate: &returned,
		}},
	}

	// act
	data, err := shell.EncodeCollections(collections)
	require.NoError(t, err)
	decoded, err := shell.DecodeCollections(data)

	// assert
	require.NoError(t, err)
	assert.Equal(t, collections, decoded)
}

func insert[T any](t *testing.T, store *memengine.DocumentStore, toDocument func(T) (docstore.Document, error), model T) string {
	t.Helper()

	document, err := toDocument(model)
	require.NoError(t, err)

	id, err := store.Insert(context.Background(), document)
	require.NoError(t, err)

	return id
}
