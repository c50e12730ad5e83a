package core

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CategoryAll is the category filter value that matches every template.
const CategoryAll = "all"

// LoanStatusFilter selects loans by their derived state.
type LoanStatusFilter string

const (
	LoanStatusAll      LoanStatusFilter = "all"
	LoanStatusActive   LoanStatusFilter = "active"
	LoanStatusReturned LoanStatusFilter = "returned"
	LoanStatusOverdue  LoanStatusFilter = "overdue"
)

// ParseLoanStatusFilter accepts all, active, returned and overdue in any case. Empty means all.
func ParseLoanStatusFilter(value string) (LoanStatusFilter, bool) {
	switch status := LoanStatusFilter(strings.ToLower(strings.TrimSpace(value))); status {
	case "":
		return LoanStatusAll, true
	case LoanStatusAll, LoanStatusActive, LoanStatusReturned, LoanStatusOverdue:
		return status, true
	default:
		return "", false
	}
}

func (f LoanStatusFilter) matches(loan BorrowedBook, now time.Time) bool {
	switch f {
	case LoanStatusActive:
		return !loan.IsReturned
	case LoanStatusReturned:
		return loan.IsReturned
	case LoanStatusOverdue:
		return loan.IsOverdue(now)
	default:
		return true
	}
}

// FilterTemplates keeps active templates of the category (CategoryAll or empty for any) whose
// title, author, ISBN or publisher contains the search text. The result is sorted by title.
func FilterTemplates(all []BookTemplate, searchText string, category string) []BookTemplate {
	needle := Normalize(strings.TrimSpace(searchText))

	result := make([]BookTemplate, 0)
	for _, template := range all {
		if template.Lifecycle.IsDeleted() {
			continue
		}

		if category != "" && category != CategoryAll && template.Category != category {
			continue
		}

		if needle != "" && !containsNormalized(needle, template.Title, template.Author, template.ISBN, template.Publisher) {
			continue
		}

		result = append(result, template)
	}

	collator := newTitleCollator()
	slices.SortStableFunc(result, func(a, b BookTemplate) int {
		return collator.CompareString(a.Title, b.Title)
	})

	return result
}

// FilterStudents keeps active students whose name, surname, full name, student number or email
// contains the search text. The result is sorted by name, then surname.
func FilterStudents(all []Student, searchText string) []Student {
	needle := Normalize(strings.TrimSpace(searchText))

	result := make([]Student, 0)
	for _, student := range all {
		if student.Lifecycle.IsDeleted() {
			continue
		}

		if needle != "" && !containsNormalized(needle,
			student.Name, student.Surname, student.FullName(), student.StudentNumber, student.Email) {
			continue
		}

		result = append(result, student)
	}

	collator := newTitleCollator()
	slices.SortStableFunc(result, func(a, b Student) int {
		if c := collator.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return collator.CompareString(a.Surname, b.Surname)
	})

	return result
}

// FilterLoans keeps loans matching the status whose copy barcode, template (title, author, ISBN)
// or student (full name, number) contains the search text. References are resolved through the
// snapshot, an unresolvable reference simply does not match. The result is sorted by borrow date,
// newest first.
func FilterLoans(all []BorrowedBook, searchText string, status LoanStatusFilter, snapshot Collections, now time.Time) []BorrowedBook {
	needle := Normalize(strings.TrimSpace(searchText))

	result := make([]BorrowedBook, 0)
	for _, loan := range all {
		if !status.matches(loan, now) {
			continue
		}

		if needle != "" && !loanMatches(loan, needle, snapshot) {
			continue
		}

		result = append(result, loan)
	}

	slices.SortStableFunc(result, func(a, b BorrowedBook) int {
		if c := b.BorrowDate.Compare(a.BorrowDate); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return result
}

func loanMatches(loan BorrowedBook, needle string, snapshot Collections) bool {
	if bookCopy, found := snapshot.CopyByID(loan.CopyID); found {
		if containsNormalized(needle, bookCopy.Barcode) {
			return true
		}

		if template, found := snapshot.TemplateByID(bookCopy.BookTemplateID); found {
			if containsNormalized(needle, template.Title, template.Author, template.ISBN) {
				return true
			}
		}
	}

	if student, found := snapshot.StudentByID(loan.StudentID); found {
		if containsNormalized(needle, student.FullName(), student.StudentNumber) {
			return true
		}
	}

	return false
}

// newTitleCollator sorts with Turkish collation rules, so "Çalıkuşu" sorts between "C" and "D".
// A Collator is not safe for concurrent use, hence one per call.
func newTitleCollator() *collate.Collator {
	return collate.New(language.Turkish, collate.IgnoreCase)
}
