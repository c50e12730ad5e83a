package mostborrowedtemplates

import (
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// TemplateRanking is one entry of the ranking. Title and Author are empty when the template is gone.
type TemplateRanking struct {
	TemplateID core.TemplateIDString
	Title      string
	Author     string
	Count      int
}

// MostBorrowedTemplates represents the query result, most borrowed first.
type MostBorrowedTemplates struct {
	Templates []TemplateRanking
	LoadedAt  time.Time
	Stale     bool
}

func (r MostBorrowedTemplates) IsStale() bool {
	return r.Stale
}
