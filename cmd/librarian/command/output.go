package command

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const dayLayout = "2006-01-02"

func (c *cli) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.stdout, format, args...)
}

// printStaleness tells the operator on stderr that a view was computed from the cached snapshot.
func (c *cli) printStaleness(stale bool, loadedAt time.Time) {
	if !stale {
		return
	}

	_, _ = fmt.Fprintf(c.stderr, "offline: showing the snapshot loaded at %s\n", loadedAt.Format(time.RFC3339))
}

func formatDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// table writes tab separated rows as aligned columns.
type table struct {
	writer *tabwriter.Writer
}

func newTable(out io.Writer, header ...string) *table {
	t := &table{writer: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	t.row(header...)

	return t
}

func (t *table) row(cells ...string) {
	_, _ = fmt.Fprintln(t.writer, strings.Join(cells, "\t"))
}

func (t *table) flush() {
	_ = t.writer.Flush()
}

func (c *cli) printLoans(loans []core.LoanView) {
	if len(loans) == 0 {
		c.printf("No loans\n")
		return
	}

	t := newTable(c.stdout, "LOAN", "BARCODE", "TITLE", "STUDENT", "NUMBER", "BORROWED", "DUE", "STATE")
	for _, loan := range loans {
		t.row(
			string(loan.Loan.ID),
			loan.Barcode,
			loan.Title,
			loan.StudentName,
			loan.StudentNumber,
			formatDay(loan.Loan.BorrowDate),
			formatDay(loan.DueDate),
			loanState(loan),
		)
	}
	t.flush()
}

func loanState(loan core.LoanView) string {
	switch {
	case loan.Loan.IsReturned && loan.Loan.ReturnDate != nil:
		return "returned " + formatDay(*loan.Loan.ReturnDate)
	case loan.Loan.IsReturned:
		return "returned"
	case loan.IsOverdue:
		return fmt.Sprintf("overdue %dd", loan.OverdueDays)
	default:
		return fmt.Sprintf("%dd left", loan.RemainingDays)
	}
}
