package fixtures

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// Template builds an active template.
func Template(id string, title string) core.BookTemplate {
	return core.BookTemplate{
		ID:        id,
		Title:     title,
		Author:    "Author of " + title,
		Category:  "Novel",
		Lifecycle: core.Active(),
	}
}

// Copy builds an available, active copy with a LIB barcode.
func Copy(id string, templateID string, bookID int, copyNumber int) core.BookCopy {
	return core.BookCopy{
		ID:             id,
		BookID:         bookID,
		CopyNumber:     copyNumber,
		Barcode:        fmt.Sprintf("LIB%03d%03d", bookID, copyNumber),
		IsAvailable:    true,
		BookTemplateID: templateID,
		Lifecycle:      core.Active(),
	}
}

// Student builds an active student.
func Student(id string, studentNumber string, name string, surname string) core.Student {
	return core.Student{
		ID:            id,
		Name:          name,
		Surname:       surname,
		StudentNumber: studentNumber,
		Email:         studentNumber + "@school.example",
		Lifecycle:     core.Active(),
	}
}

// OpenLoan builds an open loan with the default term.
func OpenLoan(id string, copyID string, studentID string, borrowDate time.Time) core.BorrowedBook {
	return core.BorrowedBook{
		ID:         id,
		CopyID:     copyID,
		StudentID:  studentID,
		BorrowDate: core.ToStoredTime(borrowDate),
		BorrowDays: core.DefaultBorrowDays,
	}
}

// ReturnedLoan builds a closed loan.
func ReturnedLoan(id string, copyID string, studentID string, borrowDate time.Time, returnDate time.Time) core.BorrowedBook {
	loan := OpenLoan(id, copyID, studentID, borrowDate)
	returned := core.ToStoredTime(returnDate)
	loan.IsReturned = true
	loan.ReturnDate = &returned

	return loan
}

// Lent returns the copy flagged as lent out.
func Lent(bookCopy core.BookCopy) core.BookCopy {
	bookCopy.IsAvailable = false
	return bookCopy
}

// SoftDeleted returns the lifecycle of a record deleted at the given time.
func SoftDeleted(at time.Time) core.Lifecycle {
	return core.Deleted(core.ToStoredTime(at))
}

// Seed inserts every record of collections into the store. All records must carry an id.
func Seed(ctx context.Context, t *testing.T, store docstore.Writer, collections core.Collections) {
	t.Helper()

	for _, template := range collections.Templates {
		insert(ctx, t, store, template, shell.TemplateDocument)
	}

	for _, bookCopy := range collections.Copies {
		insert(ctx, t, store, bookCopy, shell.CopyDocument)
	}

	for _, student := range collections.Students {
		insert(ctx, t, store, student, shell.StudentDocument)
	}

	for _, loan := range collections.Loans {
		insert(ctx, t, store, loan, shell.LoanDocument)
	}
}

func insert[T any](ctx context.Context, t *testing.T, store docstore.Writer, model T, toDocument func(T) (docstore.Document, error)) {
	t.Helper()

	document, err := toDocument(model)
	require.NoError(t, err, "fixture should map to a document")
	require.NotEmpty(t, document.ID, "fixture must carry an id")

	_, err = store.Insert(ctx, document)
	require.NoError(t, err, "fixture should be inserted")
}

// Load reads all four collections back from the store.
func Load(ctx context.Context, t *testing.T, store docstore.Reader) core.Collections {
	t.Helper()

	collections, err := shell.LoadCollections(ctx, store)
	require.NoError(t, err, "collections should load")

	return collections
}
