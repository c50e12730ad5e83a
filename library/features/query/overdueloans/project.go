package overdueloans

import (
	"cmp"
	"slices"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// ProjectOverdueLoans is a pure function that derives the overdue loans from a snapshot.
//
// Query Logic:
//
//	GIVEN: a library snapshot and the current time
//	WHEN:  OverdueLoans query is executed
//	THEN:  every open loan past its due day is listed, longest overdue first
//	EXCLUDES: returned loans, loans on or before their due day
func ProjectOverdueLoans(snapshot shell.LibrarySnapshot, query Query) OverdueLoans {
	loans := core.DescribeLoans(core.OverdueLoans(snapshot.Collections.Loans, query.Now), snapshot.Collections, query.Now)

	slices.SortStableFunc(loans, func(a, b core.LoanView) int {
		return cmp.Compare(b.OverdueDays, a.OverdueDays)
	})

	return OverdueLoans{
		Loans:    loans,
		Count:    len(loans),
		LoadedAt: snapshot.LoadedAt,
		Stale:    snapshot.Stale,
	}
}
