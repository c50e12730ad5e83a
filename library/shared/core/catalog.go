package core

import (
	"strings"
)

const studentNumberLength = 8

// NormalizeISBN removes hyphens and spaces and upper-cases a trailing x.
func NormalizeISBN(value string) string {
	cleaned := strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(value))
	return strings.ToUpper(cleaned)
}

// ValidateNewTemplate requires a title. An ISBN is optional but must have a valid shape when present.
func ValidateNewTemplate(template BookTemplate) error {
	if strings.TrimSpace(template.Title) == "" {
		return ErrMissingTitle
	}

	if template.ISBN != "" && !IsValidISBN(template.ISBN) {
		return ErrInvalidISBN
	}

	return nil
}

// IsValidStudentNumber accepts exactly 8 ASCII digits.
func IsValidStudentNumber(value string) bool {
	return len(value) == studentNumberLength && allDigits(value)
}

// ValidateNewStudent checks the number shape, the name, and that no active student holds the number.
// Numbers of deleted students may be registered again.
func ValidateNewStudent(student Student, roster []Student) error {
	if !IsValidStudentNumber(student.StudentNumber) {
		return ErrInvalidStudentNumber
	}

	if strings.TrimSpace(student.Name) == "" {
		return ErrMissingName
	}

	if _, taken := FindStudentByNumber(student.StudentNumber, roster); taken {
		return ErrStudentNumberTaken
	}

	return nil
}

// PlanCopies creates copyCount new copies of a template.
//
// Copies of one template share a book id: the highest book id among the template's existing copies
// is reused, a template without copies gets NextBookID over all copies.
func PlanCopies(templateID TemplateIDString, copyCount int, allCopies []BookCopy) ([]BookCopy, error) {
	bookID := 0
	for _, bookCopy := range allCopies {
		if bookCopy.BookTemplateID == templateID {
			bookID = max(bookID, bookCopy.BookID)
		}
	}

	if bookID == 0 {
		bookID = NextBookID(allCopies)
	}

	return CreateCopies(bookID, copyCount, allCopies, templateID)
}
