package searchstudents

import (
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// ProjectStudentSearch filters the roster and counts each student's loans.
func ProjectStudentSearch(snapshot shell.LibrarySnapshot, query Query) StudentSearchResult {
	students := core.FilterStudents(snapshot.Collections.Students, query.SearchText)

	entries := make([]StudentEntry, 0, len(students))
	for _, student := range students {
		open := snapshot.Collections.ActiveLoansOfStudent(student.ID)

		entries = append(entries, StudentEntry{
			Student:      student,
			ActiveLoans:  len(open),
			OverdueLoans: len(core.OverdueLoans(open, query.Now)),
		})
	}

	return StudentSearchResult{
		Entries:  entries,
		Count:    len(entries),
		LoadedAt: snapshot.LoadedAt,
		Stale:    snapshot.Stale,
	}
}
