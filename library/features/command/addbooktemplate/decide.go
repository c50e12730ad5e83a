package addbooktemplate

import (
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// Decision is the outcome of Decide. Template is set when it must be inserted.
type Decision struct {
	core.DecisionResult

	Template core.BookTemplate
}

// Decide validates the new template against the catalog.
//
// Business Rules:
//
//	GIVEN: template fields
//	WHEN:  AddBookTemplate is received
//	THEN:  a new active template is inserted
//	ERROR: ErrMissingTitle, ErrInvalidISBN
//	IDEMPOTENCY: an active template with the same ISBN and title exists
func Decide(catalog []core.BookTemplate, command Command) Decision {
	template := core.BookTemplate{
		Title:       command.Title,
		Author:      command.Author,
		ISBN:        command.ISBN,
		Publisher:   command.Publisher,
		Editor:      command.Editor,
		Category:    command.Category,
		Description: command.Description,
		Lifecycle:   core.Active(),
	}

	if err := core.ValidateNewTemplate(template); err != nil {
		return Decision{DecisionResult: core.ErrorDecision(err)}
	}

	if template.ISBN != "" {
		for _, existing := range catalog {
			if existing.Lifecycle.IsDeleted() {
				continue
			}

			if existing.ISBN == template.ISBN && core.Normalize(existing.Title) == core.Normalize(template.Title) {
				return Decision{DecisionResult: core.IdempotentDecision(), Template: existing}
			}
		}
	}

	return Decision{DecisionResult: core.SuccessDecision(), Template: template}
}
