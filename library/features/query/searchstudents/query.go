package searchstudents

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const (
	queryType = "SearchStudents"
)

// Query represents the intent to search the roster.
type Query struct {
	SearchText string
	Now        time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(searchText string, now time.Time) Query {
	return Query{
		SearchText: strings.TrimSpace(searchText),
		Now:        core.ToStoredTime(now),
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
