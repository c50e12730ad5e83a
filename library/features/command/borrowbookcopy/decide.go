package borrowbookcopy

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// Decision is the outcome of Decide. Loan and Copy are only set when there is something to write.
type Decision struct {
	core.DecisionResult

	Loan core.BorrowedBook
	Copy core.BookCopy
}

// Decide applies the borrowing rules to a reconciled snapshot of the library.
// It is a pure function: it returns the loan to insert and the copy to mark as lent.
//
// Business Rules:
//
//	GIVEN: a student number and a copy barcode
//	WHEN:  BorrowBookCopy is received
//	THEN:  a new open loan (term from the policy) and the copy flagged unavailable
//	ERROR: ErrInvalidStudent  no active student with this number
//	ERROR: ErrNotFound        no copy with this barcode
//	ERROR: ErrCopyUnavailable the copy is lent out or deleted
//	ERROR: ErrLimitExceeded   the student holds the maximum number of books
//	ERROR: ErrDuplicateTitle  the student holds a copy of the same template
func Decide(library core.Collections, command Command, policy core.BorrowingPolicy) Decision {
	student, found := core.FindStudentByNumber(command.StudentNumber, library.Students)
	if !found {
		return Decision{DecisionResult: core.ErrorDecision(core.ErrInvalidStudent)}
	}

	bookCopy, found := core.FindCopyByBarcode(command.Barcode, library.Copies)
	if !found {
		return Decision{DecisionResult: core.ErrorDecision(fmt.Errorf("%w: copy %s", core.ErrNotFound, command.Barcode))}
	}

	template, _ := library.TemplateByID(bookCopy.BookTemplateID)

	err := core.ValidateBorrow(
		&student,
		bookCopy,
		template,
		library.ActiveLoansOfStudent(student.ID),
		library.Copies,
		policy,
	)
	if err != nil {
		return Decision{DecisionResult: core.ErrorDecision(err)}
	}

	return Decision{
		DecisionResult: core.SuccessDecision(),
		Loan:           core.NewLoan(student.ID, bookCopy.ID, command.OccurredAt, policy),
		Copy:           core.MarkLent(bookCopy),
	}
}
