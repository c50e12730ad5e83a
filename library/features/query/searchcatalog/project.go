package searchcatalog

import (
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// ProjectCatalogSearch filters the templates and counts their copies.
//
// Query Logic:
//
//	GIVEN: a library snapshot, a search text and a category
//	WHEN:  SearchCatalog query is executed
//	THEN:  matching templates are listed by title with their active and available copy counts
//	EXCLUDES: deleted templates, deleted copies in the counts
func ProjectCatalogSearch(snapshot shell.LibrarySnapshot, query Query) CatalogSearchResult {
	templates := core.FilterTemplates(snapshot.Collections.Templates, query.SearchText, query.Category)

	entries := make([]CatalogEntry, 0, len(templates))
	for _, template := range templates {
		entry := CatalogEntry{Template: template}

		for _, bookCopy := range snapshot.Collections.CopiesOfTemplate(template.ID) {
			if bookCopy.Lifecycle.IsDeleted() {
				continue
			}

			entry.CopyCount++
			if bookCopy.IsAvailable {
				entry.AvailableCount++
			}
		}

		entries = append(entries, entry)
	}

	return CatalogSearchResult{
		Entries:  entries,
		Count:    len(entries),
		LoadedAt: snapshot.LoadedAt,
		Stale:    snapshot.Stale,
	}
}
