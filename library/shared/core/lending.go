package core

import (
	"time"
)

// FindStudentByNumber matches the student number exactly. Deleted students are not found.
func FindStudentByNumber(studentNumber string, roster []Student) (Student, bool) {
	if studentNumber == "" {
		return Student{}, false
	}

	for _, student := range roster {
		if student.StudentNumber == studentNumber && !student.Lifecycle.IsDeleted() {
			return student, true
		}
	}

	return Student{}, false
}

// FindCopyByBarcode matches the barcode exactly. The caller checks availability separately.
func FindCopyByBarcode(barcode string, copies []BookCopy) (BookCopy, bool) {
	if barcode == "" {
		return BookCopy{}, false
	}

	for _, bookCopy := range copies {
		if bookCopy.Barcode == barcode {
			return bookCopy, true
		}
	}

	return BookCopy{}, false
}

// ValidateBorrow checks, in this order, and reports the first violation:
//
//	ErrInvalidStudent   no student, or the student is deleted
//	ErrCopyUnavailable  the copy is lent out or deleted
//	ErrLimitExceeded    the student already holds the maximum number of books
//	ErrDuplicateTitle   the student already holds a copy of the same template
//
// The template is the one the copy belongs to. If it has no id, the copy's template reference is used.
func ValidateBorrow(
	student *Student,
	bookCopy BookCopy,
	template BookTemplate,
	studentActiveLoans []BorrowedBook,
	allCopies []BookCopy,
	policy BorrowingPolicy,
) error {
	if student == nil || student.ID == "" || student.Lifecycle.IsDeleted() {
		return ErrInvalidStudent
	}

	if !bookCopy.IsAvailable || bookCopy.Lifecycle.IsDeleted() {
		return ErrCopyUnavailable
	}

	if !policy.CanBorrowBook(len(studentActiveLoans)) {
		return ErrLimitExceeded
	}

	targetTemplateID := template.ID
	if targetTemplateID == "" {
		targetTemplateID = bookCopy.BookTemplateID
	}

	if !CanBorrowSameBook(studentActiveLoans, targetTemplateID, allCopies) {
		return ErrDuplicateTitle
	}

	return nil
}

// NewLoan builds an open loan starting now with the policy's default term. The store assigns the id.
func NewLoan(studentID StudentIDString, copyID CopyIDString, now time.Time, policy BorrowingPolicy) BorrowedBook {
	return BorrowedBook{
		CopyID:     copyID,
		StudentID:  studentID,
		BorrowDate: ToStoredTime(now),
		BorrowDays: policy.DefaultBorrowDays,
	}
}

// CloseLoan marks the loan returned at now. A loan can only be closed once, ErrAlreadyReturned otherwise.
func CloseLoan(loan BorrowedBook, now time.Time) (BorrowedBook, error) {
	if loan.IsReturned {
		return loan, ErrAlreadyReturned
	}

	returnDate := ToStoredTime(now)
	loan.IsReturned = true
	loan.ReturnDate = &returnDate

	return loan, nil
}

// MarkLent returns the copy flagged as lent out.
func MarkLent(bookCopy BookCopy) BookCopy {
	bookCopy.IsAvailable = false
	return bookCopy
}

// MarkReturned returns the copy flagged as back on the shelf.
func MarkReturned(bookCopy BookCopy) BookCopy {
	bookCopy.IsAvailable = true
	return bookCopy
}
