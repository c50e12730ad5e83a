package loanstatistics

import (
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// ProjectLoanStatistics counts all loans of the snapshot.
func ProjectLoanStatistics(snapshot shell.LibrarySnapshot, query Query) LoanStatistics {
	return LoanStatistics{
		LoanStatistics: core.Statistics(snapshot.Collections.Loans, query.Now),
		LoadedAt:       snapshot.LoadedAt,
		Stale:          snapshot.Stale,
	}
}
