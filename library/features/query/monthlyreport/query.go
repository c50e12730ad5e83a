package monthlyreport

import (
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const (
	queryType = "MonthlyReport"
)

// ErrInvalidMonth is returned by BuildQuery for a month outside 1..12 or a year below 1.
var ErrInvalidMonth = errors.New("invalid report month")

// Query represents the intent to report one calendar month. Now drives the due-day arithmetic of the listed loans.
type Query struct {
	Year  int
	Month time.Month
	Now   time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(year int, month time.Month, now time.Time) (Query, error) {
	if month < time.January || month > time.December || year < 1 {
		return Query{}, fmt.Errorf("%w: %d-%02d", ErrInvalidMonth, year, int(month))
	}

	return Query{Year: year, Month: month, Now: core.ToStoredTime(now)}, nil
}

// BuildCurrentMonthQuery creates a Query for the UTC month containing now.
func BuildCurrentMonthQuery(now time.Time) Query {
	year, month, _ := now.UTC().Date()

	return Query{Year: year, Month: month, Now: core.ToStoredTime(now)}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
