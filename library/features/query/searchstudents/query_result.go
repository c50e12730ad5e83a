package searchstudents

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// StudentEntry is one matching student.
type StudentEntry struct {
	Student      core.Student
	ActiveLoans  int
	OverdueLoans int
}

// StudentSearchResult represents the query result, sorted by name.
type StudentSearchResult struct {
	Entries  []StudentEntry
	Count    int
	LoadedAt time.Time
	Stale    bool
}

func (r StudentSearchResult) IsStale() bool {
	return r.Stale
}
