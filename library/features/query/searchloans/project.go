package searchloans

import (
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// ProjectLoanSearch filters the loans and resolves their references for display.
func ProjectLoanSearch(snapshot shell.LibrarySnapshot, query Query) LoanSearchResult {
	library := snapshot.Collections
	loans := core.FilterLoans(library.Loans, query.SearchText, query.Status, library, query.Now)
	views := core.DescribeLoans(loans, library, query.Now)

	return LoanSearchResult{
		Loans:    views,
		Count:    len(views),
		LoadedAt: snapshot.LoadedAt,
		Stale:    snapshot.Stale,
	}
}
