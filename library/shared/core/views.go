package core

import (
	"slices"
	"time"
)

// LoanStatistics summarizes all loans. ReturnRate is the percentage of returned loans, 0 without loans.
type LoanStatistics struct {
	Total      int
	Active     int
	Returned   int
	Overdue    int
	ReturnRate float64
}

// TemplateBorrowCount is how often copies of one template were borrowed.
type TemplateBorrowCount struct {
	TemplateID TemplateIDString
	Count      int
}

// MonthlyReport lists the loans borrowed and the loans returned in one calendar month.
type MonthlyReport struct {
	Year     int
	Month    time.Month
	Borrowed []BorrowedBook
	Returned []BorrowedBook
}

func (r MonthlyReport) TotalBorrowed() int {
	return len(r.Borrowed)
}

func (r MonthlyReport) TotalReturned() int {
	return len(r.Returned)
}

// ActiveLoans returns the open loans in their original order.
func ActiveLoans(loans []BorrowedBook) []BorrowedBook {
	return filterLoans(loans, func(l BorrowedBook) bool { return !l.IsReturned })
}

// OverdueLoans returns the open loans past their due day.
func OverdueLoans(loans []BorrowedBook, now time.Time) []BorrowedBook {
	return filterLoans(loans, func(l BorrowedBook) bool { return l.IsOverdue(now) })
}

// Statistics computes counts over all loans. Overdue loans are also counted as active.
func Statistics(loans []BorrowedBook, now time.Time) LoanStatistics {
	stats := LoanStatistics{Total: len(loans)}

	for _, loan := range loans {
		switch {
		case loan.IsReturned:
			stats.Returned++
		case loan.IsOverdue(now):
			stats.Active++
			stats.Overdue++
		default:
			stats.Active++
		}
	}

	if stats.Total > 0 {
		stats.ReturnRate = float64(stats.Returned*100) / float64(stats.Total)
	}

	return stats
}

// MostBorrowedTemplates groups loans by the template of their copy and sorts by count, descending.
// Ties keep the order in which the templates first appear among the loans.
// Loans whose copy or template cannot be resolved are left out. A limit below 1 means no limit.
func MostBorrowedTemplates(loans []BorrowedBook, copies []BookCopy, limit int) []TemplateBorrowCount {
	counts := make([]TemplateBorrowCount, 0)
	index := make(map[TemplateIDString]int)

	for _, loan := range loans {
		bookCopy, found := findCopyByID(copies, loan.CopyID)
		if !found || bookCopy.BookTemplateID == "" {
			continue
		}

		i, seen := index[bookCopy.BookTemplateID]
		if !seen {
			i = len(counts)
			index[bookCopy.BookTemplateID] = i
			counts = append(counts, TemplateBorrowCount{TemplateID: bookCopy.BookTemplateID})
		}

		counts[i].Count++
	}

	slices.SortStableFunc(counts, func(a, b TemplateBorrowCount) int {
		return b.Count - a.Count
	})

	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}

	return counts
}

// BuildMonthlyReport selects loans borrowed in the month and loans returned in the month, both in UTC.
func BuildMonthlyReport(loans []BorrowedBook, month time.Month, year int) MonthlyReport {
	report := MonthlyReport{Year: year, Month: month}

	inMonth := func(t time.Time) bool {
		y, m, _ := t.UTC().Date()
		return y == year && m == month
	}

	for _, loan := range loans {
		if inMonth(loan.BorrowDate) {
			report.Borrowed = append(report.Borrowed, loan)
		}

		if loan.IsReturned && loan.ReturnDate != nil && inMonth(*loan.ReturnDate) {
			report.Returned = append(report.Returned, loan)
		}
	}

	return report
}

// LoanView is a loan with its references resolved against a snapshot, as listed to a librarian.
// Fields of an unresolvable reference stay empty.
type LoanView struct {
	Loan          BorrowedBook
	Barcode       string
	TemplateID    TemplateIDString
	Title         string
	StudentName   string
	StudentNumber string
	DueDate       time.Time
	RemainingDays int
	OverdueDays   int
	IsOverdue     bool
}

// DescribeLoan resolves the copy, template and student of a loan. Day counts are 0 for returned loans.
func DescribeLoan(loan BorrowedBook, snapshot Collections, now time.Time) LoanView {
	view := LoanView{
		Loan:      loan,
		DueDate:   loan.DueDate(),
		IsOverdue: loan.IsOverdue(now),
	}

	if !loan.IsReturned {
		view.RemainingDays = RemainingDays(view.DueDate, now)
		view.OverdueDays = OverdueDays(view.DueDate, now)
	}

	if bookCopy, found := snapshot.CopyByID(loan.CopyID); found {
		view.Barcode = bookCopy.Barcode
		view.TemplateID = bookCopy.BookTemplateID

		if template, found := snapshot.TemplateByID(bookCopy.BookTemplateID); found {
			view.Title = template.Title
		}
	}

	if student, found := snapshot.StudentByID(loan.StudentID); found {
		view.StudentName = student.FullName()
		view.StudentNumber = student.StudentNumber
	}

	return view
}

// DescribeLoans applies DescribeLoan to every loan, keeping the order.
func DescribeLoans(loans []BorrowedBook, snapshot Collections, now time.Time) []LoanView {
	views := make([]LoanView, 0, len(loans))
	for _, loan := range loans {
		views = append(views, DescribeLoan(loan, snapshot, now))
	}

	return views
}

func filterLoans(loans []BorrowedBook, keep func(BorrowedBook) bool) []BorrowedBook {
	result := make([]BorrowedBook, 0)
	for _, loan := range loans {
		if keep(loan) {
			result = append(result, loan)
		}
	}

	return result
}
