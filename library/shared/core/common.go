package core

import (
	"time"
)

// TemplateIDString is the opaque store id of a BookTemplate.
type TemplateIDString = string

// CopyIDString is the opaque store id of a BookCopy.
type CopyIDString = string

// StudentIDString is the opaque store id of a Student.
type StudentIDString = string

// LoanIDString is the opaque store id of a BorrowedBook.
type LoanIDString = string

// ToStoredTime normalizes a timestamp to UTC with millisecond precision, the resolution the documents keep.
func ToStoredTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// dayOf truncates a timestamp to the start of its UTC calendar day.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
