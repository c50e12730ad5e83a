package core

import (
	"time"
)

const (
	DefaultMaxBooksPerStudent = 3
	DefaultBorrowDays         = 14
)

// BorrowingPolicy holds the process-wide lending limits.
type BorrowingPolicy struct {
	MaxBooksPerStudent int
	DefaultBorrowDays  int
}

// DefaultBorrowingPolicy allows 3 open loans per student, each for 14 days.
func DefaultBorrowingPolicy() BorrowingPolicy {
	return BorrowingPolicy{
		MaxBooksPerStudent: DefaultMaxBooksPerStudent,
		DefaultBorrowDays:  DefaultBorrowDays,
	}
}

// CanBorrowBook reports whether a student with activeBorrowCount open loans may borrow one more.
func (p BorrowingPolicy) CanBorrowBook(activeBorrowCount int) bool {
	return activeBorrowCount < p.MaxBooksPerStudent
}

// CanBorrowSameBook reports whether none of the student's open loans is for targetTemplateID.
// The template of a loan is resolved through its copy. A loan whose copy is unknown or has no
// template id never matches.
func CanBorrowSameBook(studentActiveLoans []BorrowedBook, targetTemplateID TemplateIDString, allCopies []BookCopy) bool {
	if targetTemplateID == "" {
		return true
	}

	for _, loan := range studentActiveLoans {
		if loan.IsReturned {
			continue
		}

		bookCopy, found := findCopyByID(allCopies, loan.CopyID)
		if !found || bookCopy.BookTemplateID == "" {
			continue
		}

		if bookCopy.BookTemplateID == targetTemplateID {
			return false
		}
	}

	return true
}

// DueDate adds borrowDays calendar days to borrowDate.
func DueDate(borrowDate time.Time, borrowDays int) time.Time {
	return borrowDate.AddDate(0, 0, borrowDays)
}

// IsOverdue reports whether an open loan is past its due day. The due day itself is not overdue.
func IsOverdue(dueDate time.Time, isReturned bool, now time.Time) bool {
	return !isReturned && dayOf(now).After(dayOf(dueDate))
}

// RemainingDays counts the calendar days until the due day, never below zero.
func RemainingDays(dueDate time.Time, now time.Time) int {
	return max(0, daysBetween(dayOf(now), dayOf(dueDate)))
}

// OverdueDays counts the calendar days since the due day, never below zero.
func OverdueDays(dueDate time.Time, now time.Time) int {
	return max(0, daysBetween(dayOf(dueDate), dayOf(now)))
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Round(time.Hour).Hours() / 24)
}
