package mostborrowedtemplates

import (
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// ProjectMostBorrowedTemplates ranks the templates and joins their titles.
//
// Query Logic:
//
//	GIVEN: a library snapshot
//	WHEN:  MostBorrowedTemplates query is executed
//	THEN:  templates are listed by number of loans of any of their copies, descending
//	INCLUDES: returned loans and loans of deleted records
func ProjectMostBorrowedTemplates(snapshot shell.LibrarySnapshot, query Query) MostBorrowedTemplates {
	counts := core.MostBorrowedTemplates(snapshot.Collections.Loans, snapshot.Collections.Copies, query.Limit)

	rankings := make([]TemplateRanking, 0, len(counts))
	for _, count := range counts {
		ranking := TemplateRanking{TemplateID: count.TemplateID, Count: count.Count}

		if template, found := snapshot.Collections.TemplateByID(count.TemplateID); found {
			ranking.Title = template.Title
			ranking.Author = template.Author
		}

		rankings = append(rankings, ranking)
	}

	return MostBorrowedTemplates{
		Templates: rankings,
		LoadedAt:  snapshot.LoadedAt,
		Stale:     snapshot.Stale,
	}
}
