package core

import (
	"time"
)

// BookTemplate is a catalog entry for a title. It is not a physical object.
type BookTemplate struct {
	ID          TemplateIDString
	Title       string
	Author      string
	ISBN        string
	Publisher   string
	Editor      string
	Category    string
	Description string
	Lifecycle   Lifecycle
}

// BookCopy is one physical, separately lendable instance of a BookTemplate.
//
// BookID is shared by all copies of one template acquisition batch, CopyNumber counts from 1 within it.
// IsAvailable must equal "no open loan references this copy". Only the lending commands
// and the availability reconciliation change it.
type BookCopy struct {
	ID             CopyIDString
	BookID         int
	CopyNumber     int
	Barcode        string
	IsAvailable    bool
	BookTemplateID TemplateIDString
	Lifecycle      Lifecycle
}

// Student is a member of the roster. StudentNumber has exactly 8 digits and is unique.
type Student struct {
	ID            StudentIDString
	Name          string
	Surname       string
	StudentNumber string
	Email         string
	Lifecycle     Lifecycle
}

// FullName joins name and surname.
func (s Student) FullName() string {
	switch {
	case s.Surname == "":
		return s.Name
	case s.Name == "":
		return s.Surname
	default:
		return s.Name + " " + s.Surname
	}
}

// BorrowedBook is a loan of one copy to one student. It is created on borrow and changed once, on return.
type BorrowedBook struct {
	ID         LoanIDString
	CopyID     CopyIDString
	StudentID  StudentIDString
	BorrowDate time.Time
	BorrowDays int
	IsReturned bool
	ReturnDate *time.Time
}

// DueDate is BorrowDate plus BorrowDays calendar days.
func (l BorrowedBook) DueDate() time.Time {
	return DueDate(l.BorrowDate, l.BorrowDays)
}

// IsOverdue reports whether the loan is open and past its due day.
func (l BorrowedBook) IsOverdue(now time.Time) bool {
	return IsOverdue(l.DueDate(), l.IsReturned, now)
}

// Collections is a point-in-time snapshot of all four collections.
// It is the only input the lending decisions and derived views need.
type Collections struct {
	Templates []BookTemplate
	Copies    []BookCopy
	Students  []Student
	Loans     []BorrowedBook
}

func (c Collections) TemplateByID(id TemplateIDString) (BookTemplate, bool) {
	for _, template := range c.Templates {
		if id != "" && template.ID == id {
			return template, true
		}
	}

	return BookTemplate{}, false
}

func (c Collections) CopyByID(id CopyIDString) (BookCopy, bool) {
	return findCopyByID(c.Copies, id)
}

func (c Collections) StudentByID(id StudentIDString) (Student, bool) {
	for _, student := range c.Students {
		if id != "" && student.ID == id {
			return student, true
		}
	}

	return Student{}, false
}

func (c Collections) LoanByID(id LoanIDString) (BorrowedBook, bool) {
	for _, loan := range c.Loans {
		if id != "" && loan.ID == id {
			return loan, true
		}
	}

	return BorrowedBook{}, false
}

// ActiveLoansOfStudent returns the open loans of one student.
func (c Collections) ActiveLoansOfStudent(id StudentIDString) []BorrowedBook {
	var loans []BorrowedBook
	for _, loan := range c.Loans {
		if loan.StudentID == id && !loan.IsReturned {
			loans = append(loans, loan)
		}
	}

	return loans
}

// OpenLoanOfCopy returns the open loan referencing the copy, if any.
func (c Collections) OpenLoanOfCopy(id CopyIDString) (BorrowedBook, bool) {
	for _, loan := range c.Loans {
		if loan.CopyID == id && !loan.IsReturned {
			return loan, true
		}
	}

	return BorrowedBook{}, false
}

// CopiesOfTemplate returns all copies, deleted or not, referencing the template.
func (c Collections) CopiesOfTemplate(id TemplateIDString) []BookCopy {
	var copies []BookCopy
	for _, bookCopy := range c.Copies {
		if bookCopy.BookTemplateID == id {
			copies = append(copies, bookCopy)
		}
	}

	return copies
}

func findCopyByID(copies []BookCopy, id CopyIDString) (BookCopy, bool) {
	for _, bookCopy := range copies {
		if id != "" && bookCopy.ID == id {
			return bookCopy, true
		}
	}

	return BookCopy{}, false
}
