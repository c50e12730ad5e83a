package overdueloans

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// OverdueLoans represents the query result containing all overdue loans.
type OverdueLoans struct {
	Loans    []core.LoanView
	Count    int
	LoadedAt time.Time
	Stale    bool
}

func (r OverdueLoans) IsStale() bool {
	return r.Stale
}
