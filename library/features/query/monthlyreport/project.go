package monthlyreport

import (
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// ProjectMonthlyReport selects the loans borrowed and returned in the queried month.
func ProjectMonthlyReport(snapshot shell.LibrarySnapshot, query Query) MonthlyReport {
	report := core.BuildMonthlyReport(snapshot.Collections.Loans, query.Month, query.Year)

	return MonthlyReport{
		Year:          report.Year,
		Month:         report.Month,
		Borrowed:      core.DescribeLoans(report.Borrowed, snapshot.Collections, query.Now),
		Returned:      core.DescribeLoans(report.Returned, snapshot.Collections, query.Now),
		TotalBorrowed: report.TotalBorrowed(),
		TotalReturned: report.TotalReturned(),
		LoadedAt:      snapshot.LoadedAt,
		Stale:         snapshot.Stale,
	}
}
