package mostborrowedtemplates

const (
	queryType = "MostBorrowedTemplates"

	// DefaultLimit is the ranking length used by BuildDefaultQuery.
	DefaultLimit = 10
)

// Query represents the intent to rank templates by loan count. A Limit below 1 means no limit.
type Query struct {
	Limit int
}

// BuildQuery creates a new Query.
func BuildQuery(limit int) Query {
	return Query{Limit: limit}
}

// BuildDefaultQuery creates a Query for the top DefaultLimit templates.
func BuildDefaultQuery() Query {
	return BuildQuery(DefaultLimit)
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
