package activeloans

import (
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// ProjectActiveLoans is a pure function that derives the open loans from a snapshot.
//
// Query Logic:
//
//	GIVEN: a library snapshot
//	WHEN:  ActiveLoans query is executed
//	THEN:  every loan that is not returned is listed with its resolved references
//	EXCLUDES: returned loans
func ProjectActiveLoans(snapshot shell.LibrarySnapshot, query Query) ActiveLoans {
	loans := core.DescribeLoans(core.ActiveLoans(snapshot.Collections.Loans), snapshot.Collections, query.Now)

	return ActiveLoans{
		Loans:    loans,
		Count:    len(loans),
		LoadedAt: snapshot.LoadedAt,
		Stale:    snapshot.Stale,
	}
}
