package monthlyreport

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// MonthlyReport represents the query result.
type MonthlyReport struct {
	Year          int
	Month         time.Month
	Borrowed      []core.LoanView
	Returned      []core.LoanView
	TotalBorrowed int
	TotalReturned int
	LoadedAt      time.Time
	Stale         bool
}

func (r MonthlyReport) IsStale() bool {
	return r.Stale
}
