package loanstatistics

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const (
	queryType = "LoanStatistics"
)

// Query represents the intent to compute the loan statistics. Now decides which open loans are overdue.
type Query struct {
	Now time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(now time.Time) Query {
	return Query{Now: core.ToStoredTime(now)}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
