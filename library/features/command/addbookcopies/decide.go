package addbookcopies

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// Decision is the outcome of Decide. Copies holds the copies to insert, without ids.
type Decision struct {
	core.DecisionResult

	Copies []core.BookCopy
}

// Decide plans the new copies.
//
// Business Rules:
//
//	GIVEN: an active template and a copy count
//	WHEN:  AddBookCopies is received
//	THEN:  CopyCount new available copies with consecutive LIB barcodes
//	ERROR: ErrNotFound          unknown or deleted template
//	ERROR: ErrInvalidCopyCount  CopyCount below 1
//	ERROR: ErrBarcodeOutOfRange the copy numbers would exceed 999
func Decide(library core.Collections, command Command) Decision {
	template, found := library.TemplateByID(command.TemplateID)
	if !found || template.Lifecycle.IsDeleted() {
		return Decision{DecisionResult: core.ErrorDecision(fmt.Errorf("%w: template %s", core.ErrNotFound, command.TemplateID))}
	}

	copies, err := core.PlanCopies(template.ID, command.CopyCount, library.Copies)
	if err != nil {
		return Decision{DecisionResult: core.ErrorDecision(err)}
	}

	return Decision{DecisionResult: core.SuccessDecision(), Copies: copies}
}
