package shell

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// Collection names of the document store.
const (
	CollectionBookTemplates = "bookTemplates"
	CollectionBookCopies    = "bookCopies"
	CollectionStudents      = "students"
	CollectionBorrowedBooks = "borrowedBooks"
)

// Document field names used in queries and partial updates.
const (
	FieldIsDeleted      = "isDeleted"
	FieldDeletedAt      = "deletedAt"
	FieldIsAvailable    = "isAvailable"
	FieldBookTemplateID = "bookTemplateId"
	FieldBookID         = "bookId"
	FieldStudentNumber  = "studentNumber"
	FieldStudentID      = "studentId"
	FieldCopyID         = "copyId"
	FieldIsReturned     = "isReturned"
	FieldBorrowDate     = "borrowDate"
)

// StoredTimeLayout keeps UTC millisecond timestamps that sort lexically in chronological order.
const StoredTimeLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	// ErrMappingFromDocumentFailed is returned when a stored document can not be read as a domain model.
	ErrMappingFromDocumentFailed = errors.New("mapping from document failed")

	// ErrMappingToDocumentFailed is returned when a domain model can not be serialized.
	ErrMappingToDocumentFailed = errors.New("mapping to document failed")
)

type lifecycleFields struct {
	IsDeleted bool    `json:"isDeleted"`
	DeletedAt *string `json:"deletedAt"`
}

type templateDocument struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	Publisher   string `json:"publisher"`
	Editor      string `json:"editor"`
	Category    string `json:"category"`
	Description string `json:"description"`
	lifecycleFields
}

type copyDocument struct {
	BookID         int    `json:"bookId"`
	CopyNumber     int    `json:"copyNumber"`
	Barcode        string `json:"barcode"`
	IsAvailable    bool   `json:"isAvailable"`
	BookTemplateID string `json:"bookTemplateId"`
	lifecycleFields
}

type studentDocument struct {
	Name          string `json:"name"`
	Surname       string `json:"surname"`
	StudentNumber string `json:"studentNumber"`
	Email         string `json:"email"`
	lifecycleFields
}

type loanDocument struct {
	CopyID     string  `json:"copyId"`
	StudentID  string  `json:"studentId"`
	BorrowDate string  `json:"borrowDate"`
	BorrowDays int     `json:"borrowDays"`
	IsReturned bool    `json:"isReturned"`
	ReturnDate *string `json:"returnDate"`
}

// FormatStoredTime renders a timestamp in StoredTimeLayout.
func FormatStoredTime(t time.Time) string {
	return core.ToStoredTime(t).Format(StoredTimeLayout)
}

// ParseStoredTime parses StoredTimeLayout and RFC 3339 timestamps.
func ParseStoredTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}

	return core.ToStoredTime(t), nil
}

// LifecycleUpdate returns the fields that move a document into the given lifecycle state.
func LifecycleUpdate(lifecycle core.Lifecycle) docstore.Fields {
	fields := lifecycleFieldsFrom(lifecycle)

	var deletedAt any
	if fields.DeletedAt != nil {
		deletedAt = *fields.DeletedAt
	}

	return docstore.Fields{
		FieldIsDeleted: fields.IsDeleted,
		FieldDeletedAt: deletedAt,
	}
}

func lifecycleFieldsFrom(lifecycle core.Lifecycle) lifecycleFields {
	deletedAt, deleted := lifecycle.DeletedAt()
	if !deleted {
		return lifecycleFields{}
	}

	formatted := FormatStoredTime(deletedAt)

	return lifecycleFields{IsDeleted: true, DeletedAt: &formatted}
}

func (f lifecycleFields) toLifecycle() (core.Lifecycle, error) {
	if !f.IsDeleted {
		return core.Active(), nil
	}

	// Records deleted before the timestamp was kept are treated as deleted at the epoch.
	if f.DeletedAt == nil || *f.DeletedAt == "" {
		return core.Deleted(time.Unix(0, 0)), nil
	}

	deletedAt, err := ParseStoredTime(*f.DeletedAt)
	if err != nil {
		return core.Lifecycle{}, err
	}

	return core.Deleted(deletedAt), nil
}

// TemplateFromDocument maps a bookTemplates document.
func TemplateFromDocument(document docstore.Document) (core.BookTemplate, error) {
	payload := new(templateDocument)
	if err := jsoniter.ConfigFastest.Unmarshal(document.DataJSON, payload); err != nil {
		return core.BookTemplate{}, errors.Join(ErrMappingFromDocumentFailed, err)
	}

	lifecycle, err := payload.toLifecycle()
	if err != nil {
		return core.BookTemplate{}, errors.Join(ErrMappingFromDocumentFailed, err)
	}

	return core.BookTemplate{
		ID:          document.ID,
		Title:       payload.Title,
		Author:      payload.Author,
		ISBN:        payload.ISBN,
		Publisher:   payload.Publisher,
		Editor:      payload.Editor,
		Category:    payload.Category,
		Description: payload.Description,
		Lifecycle:   lifecycle,
	}, nil
}

// TemplateDocument maps a template to a document. An empty ID yields a document for Insert.
func TemplateDocument(template core.BookTemplate) (docstore.Document, error) {
	return buildDocument(CollectionBookTemplates, template.ID, templateDocument{
		Title:           template.Title,
		Author:          template.Author,
		ISBN:            template.ISBN,
		Publisher:       template.Publisher,
		Editor:          template.Editor,
		Category:        template.Category,
		Description:     template.Description,
		lifecycleFields: lifecycleFieldsFrom(template.Lifecycle),
	})
}

// CopyFromDocument maps a bookCopies document.
func CopyFromDocument(document docstore.Document) (core.BookCopy, error) {
	payload := new(copyDocument)
	if err := jsoniter.ConfigFastest.Unmarshal(document.DataJSON, payload); err != nil {
		return core.BookCopy{}, errors.Join(ErrMappingFromDocumentFailed, err)
	}

	lifecycle, err := payload.toLifecycle()
	if err != nil {
		return core.BookCopy{}, errors.Join(ErrMappingFromDocumentFailed, err)
	}

	return core.BookCopy{
		ID:             document.ID,
		BookID:         payload.BookID,
		CopyNumber:     payload.CopyNumber,
		Barcode:        payload.Barcode,
		IsAvailable:    payload.IsAvailable,
		BookTemplateID: payload.BookTemplateID,
		Lifecycle:      lifecycle,
	}, nil
}

// CopyDocument maps a copy to a document. An empty ID yields a document for Insert.
func CopyDocument(bookCopy core.BookCopy) (docstore.Document, error) {
	return buildDocument(CollectionBookCopies, bookCopy.ID, copyDocument{
		BookID:          bookCopy.BookID,
		CopyNumber:      bookCopy.CopyNumber,
		Barcode:         bookCopy.Barcode,
		IsAvailable:     bookCopy.IsAvailable,
		BookTemplateID:  bookCopy.BookTemplateID,
		lifecycleFields: lifecycleFieldsFrom(bookCopy.Lifecycle),
	})
}

// StudentFromDocument maps a students document.
func StudentFromDocument(document docstore.Document) (core.Student, error) {
	payload := new(studentDocument)
	if err := jsoniter.ConfigFastest.Unmarshal(document.DataJSON, payload); err != nil {
		return core.Student{}, errors.Join(ErrMappingFromDocumentFailed, err)
	}

	lifecycle, err := payload.toLifecycle()
	if err != nil {
		return core.Student{}, errors.Join(ErrMappingFromDocumentFailed, err)
	}

	return core.Student{
		ID:            document.ID,
		Name:          payload.Name,
		Surname:       payload.Surname,
		StudentNumber: payload.StudentNumber,
		Email:         payload.Email,
		Lifecycle:     lifecycle,
	}, nil
}

// StudentDocument maps a student to a document. An empty ID yields a document for Insert.
func StudentDocument(student core.Student) (docstore.Document, error) {
	return buildDocument(CollectionStudents, student.ID, studentDocument{
		Name:            student.Name,
		Surname:         student.Surname,
		StudentNumber:   student.StudentNumber,
		Email:           student.Email,
		lifecycleFields: lifecycleFieldsFrom(student.Lifecycle),
	})
}

// LoanFromDocument maps a borrowedBooks document.
func LoanFromDocument(document docstore.Document) (core.BorrowedBook, error) {
	payload := new(loanDocument)
	if err := jsoniter.ConfigFastest.Unmarshal(document.DataJSON, payload); err != nil {
		return core.BorrowedBook{}, errors.Join(ErrMappingFromDocumentFailed, err)
	}

	borrowDate, err := ParseStoredTime(payload.BorrowDate)
	if err != nil {
		return core.BorrowedBook{}, errors.Join(ErrMappingFromDocumentFailed, err)
	}

	var returnDate *time.Time
	if payload.ReturnDate != nil && *payload.ReturnDate != "" {
		parsed, err := ParseStoredTime(*payload.ReturnDate)
		if err != nil {
			return core.BorrowedBook{}, errors.Join(ErrMappingFromDocumentFailed, err)
		}
		returnDate = &parsed
	}

	return core.BorrowedBook{
		ID:         document.ID,
		CopyID:     payload.CopyID,
		StudentID:  payload.StudentID,
		BorrowDate: borrowDate,
		BorrowDays: payload.BorrowDays,
		IsReturned: payload.IsReturned,
		ReturnDate: returnDate,
	}, nil
}

// LoanDocument maps a loan to a document. An empty ID yields a document for Insert.
func LoanDocument(loan core.BorrowedBook) (docstore.Document, error) {
	var returnDate *string
	if loan.ReturnDate != nil {
		formatted := FormatStoredTime(*loan.ReturnDate)
		returnDate = &formatted
	}

	return buildDocument(CollectionBorrowedBooks, loan.ID, loanDocument{
		CopyID:     loan.CopyID,
		StudentID:  loan.StudentID,
		BorrowDate: FormatStoredTime(loan.BorrowDate),
		BorrowDays: loan.BorrowDays,
		IsReturned: loan.IsReturned,
		ReturnDate: returnDate,
	})
}

func buildDocument(collection docstore.CollectionString, id docstore.DocumentIDString, payload any) (docstore.Document, error) {
	dataJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(payload)
	if err != nil {
		return docstore.Document{}, errors.Join(ErrMappingToDocumentFailed, err)
	}

	var document docstore.Document
	if id == "" {
		document, err = docstore.BuildDocumentForInsert(collection, dataJSON)
	} else {
		document, err = docstore.BuildDocument(collection, id, dataJSON)
	}

	if err != nil {
		return docstore.Document{}, errors.Join(ErrMappingToDocumentFailed, err)
	}

	return document, nil
}

// LoadCollections reads all four collections from the store.
// Store errors and documents that can not be mapped are joined with core.ErrStoreFailure.
func LoadCollections(ctx context.Context, reader docstore.Reader) (core.Collections, error) {
	var collections core.Collections
	var err error

	if collections.Templates, err = loadAll(ctx, reader, CollectionBookTemplates, TemplateFromDocument); err != nil {
		return core.Collections{}, err
	}

	if collections.Copies, err = loadAll(ctx, reader, CollectionBookCopies, CopyFromDocument); err != nil {
		return core.Collections{}, err
	}

	if collections.Students, err = loadAll(ctx, reader, CollectionStudents, StudentFromDocument); err != nil {
		return core.Collections{}, err
	}

	if collections.Loans, err = loadAll(ctx, reader, CollectionBorrowedBooks, LoanFromDocument); err != nil {
		return core.Collections{}, err
	}

	return collections, nil
}

func loadAll[T any](
	ctx context.Context,
	reader docstore.Reader,
	collection docstore.CollectionString,
	fromDocument func(docstore.Document) (T, error),
) ([]T, error) {
	documents, err := reader.GetAll(ctx, collection)
	if err != nil {
		return nil, core.StoreFailure(err)
	}

	return mapDocuments(documents, fromDocument)
}

func mapDocuments[T any](documents docstore.Documents, fromDocument func(docstore.Document) (T, error)) ([]T, error) {
	models := make([]T, 0, len(documents))
	for _, document := range documents {
		model, err := fromDocument(document)
		if err != nil {
			return nil, core.StoreFailure(err)
		}

		models = append(models, model)
	}

	return models, nil
}

// QueryStudents runs a student query against the store, e.g. the students holding one number.
func QueryStudents(ctx context.Context, reader docstore.Reader, query docstore.Query) ([]core.Student, error) {
	documents, err := reader.Query(ctx, query)
	if err != nil {
		return nil, core.StoreFailure(err)
	}

	return mapDocuments(documents, StudentFromDocument)
}

type snapshotEntry struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

type collectionsSnapshot struct {
	Templates []snapshotEntry `json:"bookTemplates"`
	Copies    []snapshotEntry `json:"bookCopies"`
	Students  []snapshotEntry `json:"students"`
	Loans     []snapshotEntry `json:"borrowedBooks"`
}

// EncodeCollections serializes the collections with the same document layout the store keeps.
func EncodeCollections(collections core.Collections) ([]byte, error) {
	var snapshot collectionsSnapshot
	var err error

	if snapshot.Templates, err = encodeEntries(collections.Templates, TemplateDocument); err != nil {
		return nil, err
	}

	if snapshot.Copies, err = encodeEntries(collections.Copies, CopyDocument); err != nil {
		return nil, err
	}

	if snapshot.Students, err = encodeEntries(collections.Students, StudentDocument); err != nil {
		return nil, err
	}

	if snapshot.Loans, err = encodeEntries(collections.Loans, LoanDocument); err != nil {
		return nil, err
	}

	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(snapshot)
	if err != nil {
		return nil, errors.Join(ErrMappingToDocumentFailed, err)
	}

	return data, nil
}

// DecodeCollections is the inverse of EncodeCollections.
func DecodeCollections(data []byte) (core.Collections, error) {
	snapshot := new(collectionsSnapshot)
	if err := jsoniter.ConfigFastest.Unmarshal(data, snapshot); err != nil {
		return core.Collections{}, errors.Join(ErrMappingFromDocumentFailed, err)
	}

	var collections core.Collections
	var err error

	if collections.Templates, err = decodeEntries(CollectionBookTemplates, snapshot.Templates, TemplateFromDocument); err != nil {
		return core.Collections{}, err
	}

	if collections.Copies, err = decodeEntries(CollectionBookCopies, snapshot.Copies, CopyFromDocument); err != nil {
		return core.Collections{}, err
	}

	if collections.Students, err = decodeEntries(CollectionStudents, snapshot.Students, StudentFromDocument); err != nil {
		return core.Collections{}, err
	}

	if collections.Loans, err = decodeEntries(CollectionBorrowedBooks, snapshot.Loans, LoanFromDocument); err != nil {
		return core.Collections{}, err
	}

	return collections, nil
}

func encodeEntries[T any](models []T, toDocument func(T) (docstore.Document, error)) ([]snapshotEntry, error) {
	entries := make([]snapshotEntry, 0, len(models))
	for _, model := range models {
		document, err := toDocument(model)
		if err != nil {
			return nil, err
		}

		entries = append(entries, snapshotEntry{ID: document.ID, Data: document.DataJSON})
	}

	return entries, nil
}

func decodeEntries[T any](
	collection docstore.CollectionString,
	entries []snapshotEntry,
	fromDocument func(docstore.Document) (T, error),
) ([]T, error) {
	models := make([]T, 0, len(entries))
	for _, entry := range entries {
		model, err := fromDocument(docstore.Document{Collection: collection, ID: entry.ID, DataJSON: entry.Data})
		if err != nil {
			return nil, err
		}

		models = append(models, model)
	}

	return models, nil
}
