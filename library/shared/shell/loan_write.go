package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// LoanWrite is the pair of writes of a borrow or a return: the loan first, then the availability of its copy.
type LoanWrite struct {
	Loan core.BorrowedBook

	// Copy carries the new availability flag. Nil means the copy is gone and only the loan is written.
	Copy *core.BookCopy
}

// ApplyLoanWrite persists a LoanWrite.
//
// Stores implementing docstore.AtomicWriter get both writes in one all-or-nothing call.
// All other stores get the loan write, then a field update of the copy's availability.
// If the copy update fails the loan stays written; the returned HandlerResult carries its id.
// The copy update runs through RetryWithExponentialBackoff with the given options.
func ApplyLoanWrite(ctx context.Context, store DocumentStore, write LoanWrite, followUp ...RetryOption) (HandlerResult, error) {
	loanDocument, err := LoanDocument(write.Loan)
	if err != nil {
		return NewErrorResult(WriteModeNone), err
	}

	if atomicWriter, ok := store.(docstore.AtomicWriter); ok {
		return applyAtomically(ctx, atomicWriter, loanDocument, write)
	}

	return applyOrdered(ctx, store, loanDocument, write, followUp)
}

func loanWriteOf(loanDocument docstore.Document, isNew bool) docstore.Write {
	if isNew {
		return docstore.InsertWrite(loanDocument)
	}

	return docstore.ReplaceWrite(loanDocument)
}

func applyAtomically(
	ctx context.Context,
	atomicWriter docstore.AtomicWriter,
	loanDocument docstore.Document,
	write LoanWrite,
) (HandlerResult, error) {
	writes := []docstore.Write{loanWriteOf(loanDocument, write.Loan.ID == "")}

	if write.Copy != nil {
		copyDocument, err := CopyDocument(*write.Copy)
		if err != nil {
			return NewErrorResult(WriteModeNone), err
		}

		writes = append(writes, docstore.ReplaceWrite(copyDocument))
	}

	ids, err := atomicWriter.WriteAtomically(ctx, writes...)
	if err != nil {
		return NewErrorResult(WriteModeAtomic), core.StoreFailure(err)
	}

	return NewSuccessResult(WriteModeAtomic, ids...), nil
}

func applyOrdered(
	ctx context.Context,
	store DocumentStore,
	loanDocument docstore.Document,
	write LoanWrite,
	followUp []RetryOption,
) (HandlerResult, error) {
	loanID := write.Loan.ID

	if loanID == "" {
		insertedID, err := store.Insert(ctx, loanDocument)
		if err != nil {
			return NewErrorResult(WriteModeOrdered), core.StoreFailure(err)
		}

		loanID = insertedID
	} else if err := store.Replace(ctx, loanDocument); err != nil {
		return NewErrorResult(WriteModeOrdered), core.StoreFailure(err)
	}

	if write.Copy == nil {
		return NewSuccessResult(WriteModeOrdered, loanID), nil
	}

	bookCopy := *write.Copy

	retryMetrics, err := RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		return store.UpdateFields(retryCtx, CollectionBookCopies, bookCopy.ID, docstore.Fields{
			FieldIsAvailable: bookCopy.IsAvailable,
		})
	}, followUp...)

	if err != nil {
		result := NewErrorResult(WriteModeOrdered, loanID)
		result.FollowUpAttempts = retryMetrics.Attempts

		return result, core.StoreFailure(err)
	}

	result := NewSuccessResult(WriteModeOrdered, loanID, bookCopy.ID)
	result.FollowUpAttempts = retryMetrics.Attempts

	return result, nil
}
