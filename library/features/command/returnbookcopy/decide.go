package returnbookcopy

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// Decision is the outcome of Decide. Copy is nil when the lent copy no longer exists.
type Decision struct {
	core.DecisionResult

	Loan core.BorrowedBook
	Copy *core.BookCopy
}

// Decide closes a loan on a snapshot of the library.
//
// Business Rules:
//
//	GIVEN: a loan id, or the barcode of a lent copy
//	WHEN:  ReturnBookCopy is received
//	THEN:  the loan is marked returned at OccurredAt and its copy flagged available
//	ERROR: ErrNotFound        unknown loan id, unknown barcode, or no open loan for the copy
//	ERROR: ErrAlreadyReturned the loan is already closed
func Decide(library core.Collections, command Command) Decision {
	loan, err := resolveLoan(library, command)
	if err != nil {
		return Decision{DecisionResult: core.ErrorDecision(err)}
	}

	closed, err := core.CloseLoan(loan, command.OccurredAt)
	if err != nil {
		return Decision{DecisionResult: core.ErrorDecision(err)}
	}

	decision := Decision{
		DecisionResult: core.SuccessDecision(),
		Loan:           closed,
	}

	if bookCopy, found := library.CopyByID(loan.CopyID); found {
		returned := core.MarkReturned(bookCopy)
		decision.Copy = &returned
	}

	return decision
}

func resolveLoan(library core.Collections, command Command) (core.BorrowedBook, error) {
	if command.LoanID != "" {
		loan, found := library.LoanByID(command.LoanID)
		if !found {
			return core.BorrowedBook{}, fmt.Errorf("%w: loan %s", core.ErrNotFound, command.LoanID)
		}

		return loan, nil
	}

	bookCopy, found := core.FindCopyByBarcode(command.Barcode, library.Copies)
	if !found {
		return core.BorrowedBook{}, fmt.Errorf("%w: copy %s", core.ErrNotFound, command.Barcode)
	}

	loan, found := library.OpenLoanOfCopy(bookCopy.ID)
	if !found {
		return core.BorrowedBook{}, fmt.Errorf("%w: no open loan for copy %s", core.ErrNotFound, command.Barcode)
	}

	return loan, nil
}
