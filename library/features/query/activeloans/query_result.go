package activeloans

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// ActiveLoans represents the query result containing all open loans.
type ActiveLoans struct {
	Loans    []core.LoanView
	Count    int
	LoadedAt time.Time
	Stale    bool
}

// IsStale reports whether the loans come from a cached snapshot.
func (r ActiveLoans) IsStale() bool {
	return r.Stale
}
