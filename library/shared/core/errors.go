package core

import (
	"errors"
)

// Failures a caller can tell apart. Store failures are joined with ErrStoreFailure and keep the store's message.
var (
	ErrOffline          = errors.New("offline")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrInvalidStudent   = errors.New("invalid student")
	ErrCopyUnavailable  = errors.New("copy unavailable")
	ErrLimitExceeded    = errors.New("borrow limit exceeded")
	ErrDuplicateTitle   = errors.New("student already holds this title")
	ErrAlreadyReturned  = errors.New("loan already returned")
	ErrStoreFailure     = errors.New("store failure")

	ErrBarcodeOutOfRange    = errors.New("book id and copy number must be between 1 and 999")
	ErrInvalidBarcode       = errors.New("invalid barcode")
	ErrInvalidStudentNumber = errors.New("student number must have exactly 8 digits")
	ErrStudentNumberTaken   = errors.New("student number already registered")
	ErrInvalidCopyCount     = errors.New("copy count must be at least 1")
	ErrMissingTitle         = errors.New("title must not be empty")
	ErrMissingName          = errors.New("name must not be empty")
	ErrInvalidISBN          = errors.New("invalid isbn")
	ErrAlreadyDeleted       = errors.New("already deleted")
	ErrNotDeleted           = errors.New("not deleted")
)

// FailureReason values are stable identifiers for logs, metrics and the CLI exit output.
const (
	FailureReasonOffline          = "offline"
	FailureReasonPermissionDenied = "permission_denied"
	FailureReasonNotFound         = "not_found"
	FailureReasonInvalidStudent   = "invalid_student"
	FailureReasonCopyUnavailable  = "copy_unavailable"
	FailureReasonLimitExceeded    = "limit_exceeded"
	FailureReasonDuplicateTitle   = "duplicate_title"
	FailureReasonAlreadyReturned  = "already_returned"
	FailureReasonStoreFailure     = "store_failure"
	FailureReasonInvalidInput     = "invalid_input"
	FailureReasonAlreadyDeleted   = "already_deleted"
	FailureReasonNotDeleted       = "not_deleted"
	FailureReasonUnknown          = "unknown"
)

type failure struct {
	err     error
	reason  string
	message string
}

// Order matters: a joined error matches the first entry it contains.
var failures = []failure{
	{ErrOffline, FailureReasonOffline, "You are offline. Changes can only be made with a connection to the library database."},
	{ErrPermissionDenied, FailureReasonPermissionDenied, "You are not allowed to do this."},
	{ErrInvalidStudent, FailureReasonInvalidStudent, "No active student with this number was found."},
	{ErrCopyUnavailable, FailureReasonCopyUnavailable, "This copy is currently lent out."},
	{ErrLimitExceeded, FailureReasonLimitExceeded, "The student has reached the maximum number of borrowed books."},
	{ErrDuplicateTitle, FailureReasonDuplicateTitle, "The student already has a copy of this book."},
	{ErrAlreadyReturned, FailureReasonAlreadyReturned, "This book has already been returned."},
	{ErrNotFound, FailureReasonNotFound, "The requested record was not found."},
	{ErrBarcodeOutOfRange, FailureReasonInvalidInput, "Barcodes support at most 999 books with 999 copies each."},
	{ErrInvalidBarcode, FailureReasonInvalidInput, "The barcode is not valid."},
	{ErrInvalidStudentNumber, FailureReasonInvalidInput, "A student number has exactly 8 digits."},
	{ErrStudentNumberTaken, FailureReasonInvalidInput, "A student with this number is already registered."},
	{ErrInvalidCopyCount, FailureReasonInvalidInput, "At least one copy must be added."},
	{ErrMissingTitle, FailureReasonInvalidInput, "A book needs a title."},
	{ErrMissingName, FailureReasonInvalidInput, "A student needs a name."},
	{ErrInvalidISBN, FailureReasonInvalidInput, "The ISBN is not valid."},
	{ErrAlreadyDeleted, FailureReasonAlreadyDeleted, "This record is already deleted."},
	{ErrNotDeleted, FailureReasonNotDeleted, "This record is not deleted."},
	{ErrStoreFailure, FailureReasonStoreFailure, "The library database could not be reached. Please try again."},
}

// FailureReason maps an error to its stable reason identifier.
func FailureReason(err error) string {
	if err == nil {
		return ""
	}

	for _, f := range failures {
		if errors.Is(err, f.err) {
			return f.reason
		}
	}

	return FailureReasonUnknown
}

// UserMessage maps an error to a specific, user-facing message.
// Store failures include the store's own message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	for _, f := range failures {
		if !errors.Is(err, f.err) {
			continue
		}

		if f.err == ErrStoreFailure {
			return f.message + " (" + err.Error() + ")"
		}

		return f.message
	}

	return "Unexpected error: " + err.Error()
}

// IsPolicyViolation reports whether err is a business rule rejection that never reached the store.
func IsPolicyViolation(err error) bool {
	switch FailureReason(err) {
	case FailureReasonInvalidStudent, FailureReasonCopyUnavailable, FailureReasonLimitExceeded,
		FailureReasonDuplicateTitle, FailureReasonAlreadyReturned, FailureReasonInvalidInput,
		FailureReasonNotFound, FailureReasonAlreadyDeleted, FailureReasonNotDeleted:
		return true
	default:
		return false
	}
}

// StoreFailure joins a store error with ErrStoreFailure. Nil stays nil.
func StoreFailure(err error) error {
	if err == nil {
		return nil
	}

	return errors.Join(ErrStoreFailure, err)
}
