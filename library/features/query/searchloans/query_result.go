package searchloans

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// LoanSearchResult represents the query result, newest loan first.
type LoanSearchResult struct {
	Loans    []core.LoanView
	Count    int
	LoadedAt time.Time
	Stale    bool
}

func (r LoanSearchResult) IsStale() bool {
	return r.Stale
}
