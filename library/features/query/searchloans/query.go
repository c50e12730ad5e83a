package searchloans

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const (
	queryType = "SearchLoans"
)

// ErrUnknownStatus is returned by BuildQuery for a status other than all, active, returned or overdue.
var ErrUnknownStatus = errors.New("unknown loan status filter")

// Query represents the intent to search the loans.
type Query struct {
	SearchText string
	Status     core.LoanStatusFilter
	Now        time.Time
}

// BuildQuery creates a new Query. An empty status means all.
func BuildQuery(searchText string, status string, now time.Time) (Query, error) {
	filter, ok := core.ParseLoanStatusFilter(status)
	if !ok {
		return Query{}, fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}

	return Query{
		SearchText: strings.TrimSpace(searchText),
		Status:     filter,
		Now:        core.ToStoredTime(now),
	}, nil
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
