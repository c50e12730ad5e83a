package activeloans

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const (
	queryType = "ActiveLoans"
)

// Query represents the intent to list the open loans. Now drives the due-day arithmetic.
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
