package searchcatalog

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// CatalogEntry is one matching template with its copy counts.
type CatalogEntry struct {
	Template       core.BookTemplate
	CopyCount      int
	AvailableCount int
}

// CatalogSearchResult represents the query result, sorted by title.
type CatalogSearchResult struct {
	Entries  []CatalogEntry
	Count    int
	LoadedAt time.Time
	Stale    bool
}

func (r CatalogSearchResult) IsStale() bool {
	return r.Stale
}
