package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

func returnedAt(t time.Time) *time.Time {
	return &t
}

func givenLoans() []core.BorrowedBook {
	return []core.BorrowedBook{
		{ID: "l1", CopyID: "c1", StudentID: "s1", BorrowDate: date(2024, 1, 1), BorrowDays: 14},
		{ID: "l2", CopyID: "c3", StudentID: "s1", BorrowDate: date(2024, 1, 20), BorrowDays: 14},
		{ID: "l3", CopyID: "c2", StudentID: "s2", BorrowDate: date(2024, 1, 5), BorrowDays: 14, IsReturned: true, ReturnDate: returnedAt(date(2024, 2, 2))},
		{ID: "l4", CopyID: "c3", StudentID: "s2", BorrowDate: date(2023, 12, 28), BorrowDays: 14, IsReturned: true, ReturnDate: returnedAt(date(2024, 1, 3))},
		{ID: "l5", CopyID: "c-gone", StudentID: "s2", BorrowDate: date(2024, 1, 7), BorrowDays: 14, IsReturned: true, ReturnDate: returnedAt(date(2024, 1, 9))},
	}
}

func Test_ActiveAndOverdueLoans(t *testing.T) {
	now := date(2024, 1, 25)

	active := core.ActiveLoans(givenLoans())
	overdue := core.OverdueLoans(givenLoans(), now)

	assert.Equal(t, []string{"l1", "l2"}, loanIDs(active))
	assert.Equal(t, []string{"l1"}, loanIDs(overdue))
}

func Test_Statistics(t *testing.T) {
	stats := core.Statistics(givenLoans(), date(2024, 1, 25))

	assert.Equal(t, core.LoanStatistics{Total: 5, Active: 2, Returned: 3, Overdue: 1, ReturnRate: 60}, stats)
	assert.Equal(t, core.LoanStatistics{}, core.Statistics(nil, date(2024, 1, 25)), "Should not divide by zero")
}

func Test_MostBorrowedTemplates(t *testing.T) {
	copies := givenLibrary().Copies

	all := core.MostBorrowedTemplates(givenLoans(), copies, 0)
	top := core.MostBorrowedTemplates(givenLoans(), copies, 1)

	assert.Equal(t, []core.TemplateBorrowCount{{TemplateID: "t1", Count: 2}, {TemplateID: "t2", Count: 2}}, all,
		"Should keep first-appearance order on ties and skip unresolvable copies")
	require.Len(t, top, 1)
	assert.Equal(t, "t1", top[0].TemplateID)
}

func Test_BuildMonthlyReport(t *testing.T) {
	report := core.BuildMonthlyReport(givenLoans(), time.January, 2024)

	assert.Equal(t, []string{"l1", "l2", "l3", "l5"}, loanIDs(report.Borrowed))
	assert.Equal(t, []string{"l4", "l5"}, loanIDs(report.Returned))
	assert.Equal(t, 4, report.TotalBorrowed())
	assert.Equal(t, 2, report.TotalReturned())
}

func Test_ReconcileAvailability(t *testing.T) {
	// arrange
	copies := []core.BookCopy{
		{ID: "c1", IsAvailable: true},  // open loan, wrongly available
		{ID: "c2", IsAvailable: false}, // no open loan, wrongly lent
		{ID: "c3", IsAvailable: false}, // open loan, correct
		{ID: "c4", IsAvailable: true},  // no loan, correct
	}
	loans := []core.BorrowedBook{
		{ID: "l1", CopyID: "c1"},
		{ID: "l2", CopyID: "c2", IsReturned: true},
		{ID: "l3", CopyID: "c3"},
	}

	// act
	corrections := core.ReconcileAvailability(copies, loans)
	reconciled := core.ApplyReconciliation(core.Collections{Copies: copies, Loans: loans})

	// assert
	require.Len(t, corrections, 2)
	assert.Equal(t, "c1", corrections[0].Copy.ID)
	assert.False(t, corrections[0].Copy.IsAvailable)
	assert.True(t, corrections[0].HasOpenLoan)
	assert.Equal(t, "c2", corrections[1].Copy.ID)
	assert.True(t, corrections[1].Copy.IsAvailable)

	assert.Empty(t, core.ReconcileAvailability(reconciled.Copies, loans))
	assert.True(t, copies[0].IsAvailable, "Should not modify the input")
}

func loanIDs(loans []core.BorrowedBook) []string {
	ids := make([]string, 0, len(loans))
	for _, loan := range loans {
		ids = append(ids, loan.ID)
	}

	return ids
}

func Test_DescribeLoan_ResolvesReferences(t *testing.T) {
	snapshot := core.Collections{
		Templates: []core.BookTemplate{{ID: "t1", Title: "Kürk Mantolu Madonna"}},
		Copies:    []core.BookCopy{{ID: "c1", Barcode: "LIB001001", BookTemplateID: "t1"}},
		Students:  []core.Student{{ID: "s1", Name: "Ayşe", Surname: "Yılmaz", StudentNumber: "12345678"}},
	}

	tests := []struct {
		name              string
		loan              core.BorrowedBook
		expectedBarcode   string
		expectedTitle     string
		expectedStudent   string
		expectedRemaining int
		expectedOverdue   int
		expectedIsOverdue bool
	}{
		{
			name:              "open and overdue",
			loan:              core.BorrowedBook{ID: "l1", CopyID: "c1", StudentID: "s1", BorrowDate: date(2024, 1, 1), BorrowDays: 14},
			expectedBarcode:   "LIB001001",
			expectedTitle:     "Kürk Mantolu Madonna",
			expectedStudent:   "Ayşe Yılmaz",
			expectedOverdue:   10,
			expectedIsOverdue: true,
		},
		{
			name:              "open within term",
			loan:              core.BorrowedBook{ID: "l2", CopyID: "c1", StudentID: "s1", BorrowDate: date(2024, 1, 20), BorrowDays: 14},
			expectedBarcode:   "LIB001001",
			expectedTitle:     "Kürk Mantolu Madonna",
			expectedStudent:   "Ayşe Yılmaz",
			expectedRemaining: 9,
		},
		{
			name: "returned with unknown references",
			loan: core.BorrowedBook{
				ID: "l3", CopyID: "c-gone", StudentID: "s-gone", BorrowDate: date(2024, 1, 1), BorrowDays: 14,
				IsReturned: true, ReturnDate: returnedAt(date(2024, 1, 3)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := core.DescribeLoan(tt.loan, snapshot, date(2024, 1, 25))

			assert.Equal(t, tt.loan.ID, view.Loan.ID)
			assert.Equal(t, tt.expectedBarcode, view.Barcode)
			assert.Equal(t, tt.expectedTitle, view.Title)
			assert.Equal(t, tt.expectedStudent, view.StudentName)
			assert.Equal(t, tt.expectedRemaining, view.RemainingDays)
			assert.Equal(t, tt.expectedOverdue, view.OverdueDays)
			assert.Equal(t, tt.expectedIsOverdue, view.IsOverdue)
			assert.Equal(t, tt.loan.BorrowDate.AddDate(0, 0, 14), view.DueDate)
		})
	}
}
