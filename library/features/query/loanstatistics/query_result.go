package loanstatistics

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// LoanStatistics represents the query result. Overdue loans are also counted as active.
type LoanStatistics struct {
	core.LoanStatistics

	LoadedAt time.Time
	Stale    bool
}

func (r LoanStatistics) IsStale() bool {
	return r.Stale
}
