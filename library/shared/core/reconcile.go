package core

// AvailabilityCorrection is a copy whose stored IsAvailable flag disagrees with its loans.
// Copy already carries the corrected flag.
type AvailabilityCorrection struct {
	Copy        BookCopy
	HasOpenLoan bool
}

// ReconcileAvailability recomputes IsAvailable for every copy as "no open loan references it"
// and returns the copies whose stored flag is wrong. A loan write that succeeded without the
// following copy write leaves exactly such a mismatch.
func ReconcileAvailability(copies []BookCopy, loans []BorrowedBook) []AvailabilityCorrection {
	open := openLoanCopyIDs(loans)

	var corrections []AvailabilityCorrection
	for _, bookCopy := range copies {
		_, hasOpenLoan := open[bookCopy.ID]
		if bookCopy.IsAvailable == !hasOpenLoan {
			continue
		}

		bookCopy.IsAvailable = !hasOpenLoan
		corrections = append(corrections, AvailabilityCorrection{Copy: bookCopy, HasOpenLoan: hasOpenLoan})
	}

	return corrections
}

// ApplyReconciliation returns a copy of the snapshot with every availability flag corrected.
func ApplyReconciliation(c Collections) Collections {
	open := openLoanCopyIDs(c.Loans)

	copies := make([]BookCopy, len(c.Copies))
	for i, bookCopy := range c.Copies {
		_, hasOpenLoan := open[bookCopy.ID]
		bookCopy.IsAvailable = !hasOpenLoan
		copies[i] = bookCopy
	}

	c.Copies = copies

	return c
}

func openLoanCopyIDs(loans []BorrowedBook) map[CopyIDString]struct{} {
	open := make(map[CopyIDString]struct{})
	for _, loan := range loans {
		if !loan.IsReturned {
			open[loan.CopyID] = struct{}{}
		}
	}

	return open
}
