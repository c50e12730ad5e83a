package searchcatalog

import (
	"strings"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const (
	queryType = "SearchCatalog"
)

// Query represents the intent to search the catalog. Empty SearchText matches every template.
type Query struct {
	SearchText string
	Category   string
}

// BuildQuery creates a new Query. An empty category means core.CategoryAll.
func BuildQuery(searchText string, category string) Query {
	category = strings.TrimSpace(category)
	if category == "" {
		category = core.CategoryAll
	}

	return Query{
		SearchText: strings.TrimSpace(searchText),
		Category:   category,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
