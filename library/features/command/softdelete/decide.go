package softdelete

import (
	"fmt"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// Decision is the outcome of Decide. Lifecycle is the state to write.
//
// For an idempotent decision IdempotentReason carries ErrAlreadyDeleted or ErrNotDeleted so callers can report it.
type Decision struct {
	core.DecisionResult

	Lifecycle        core.Lifecycle
	IdempotentReason error
}

// Decide moves the lifecycle of the targeted record.
//
// Business Rules:
//
//	GIVEN: a record kind, id and action
//	WHEN:  SoftDeleteRecord or RestoreRecord is received
//	THEN:  the record's lifecycle becomes Deleted(OccurredAt) or Active
//	ERROR: ErrNotFound        no record of this kind with this id
//	ERROR: ErrCopyUnavailable a copy with an open loan is to be deleted
//	ERROR: ErrStudentNumberTaken a student is restored whose number another active student holds
//	IDEMPOTENCY: deleting a deleted record (ErrAlreadyDeleted), restoring an active one (ErrNotDeleted)
func Decide(library core.Collections, command Command) Decision {
	current, found := lifecycleOf(library, command.Kind, command.ID)
	if !found {
		return Decision{DecisionResult: core.ErrorDecision(fmt.Errorf("%w: %s %s", core.ErrNotFound, command.Kind, command.ID))}
	}

	var next core.Lifecycle
	var err error

	switch command.Action {
	case ActionRestore:
		if command.Kind == KindStudent && current.IsDeleted() && studentNumberTaken(library, command.ID) {
			return Decision{DecisionResult: core.ErrorDecision(core.ErrStudentNumberTaken)}
		}

		next, err = current.Restore()
	default:
		if command.Kind == KindCopy {
			if _, lent := library.OpenLoanOfCopy(command.ID); lent && !current.IsDeleted() {
				return Decision{DecisionResult: core.ErrorDecision(core.ErrCopyUnavailable)}
			}
		}

		next, err = current.SoftDelete(command.OccurredAt)
	}

	if err != nil {
		return Decision{DecisionResult: core.IdempotentDecision(), Lifecycle: current, IdempotentReason: err}
	}

	return Decision{DecisionResult: core.SuccessDecision(), Lifecycle: next}
}

func lifecycleOf(library core.Collections, kind RecordKind, id string) (core.Lifecycle, bool) {
	switch kind {
	case KindTemplate:
		template, found := library.TemplateByID(id)
		return template.Lifecycle, found
	case KindCopy:
		bookCopy, found := library.CopyByID(id)
		return bookCopy.Lifecycle, found
	case KindStudent:
		student, found := library.StudentByID(id)
		return student.Lifecycle, found
	default:
		return core.Lifecycle{}, false
	}
}

// studentNumberTaken reports whether an active student other than id holds the number of student id.
func studentNumberTaken(library core.Collections, id string) bool {
	student, found := library.StudentByID(id)
	if !found {
		return false
	}

	holder, taken := core.FindStudentByNumber(student.StudentNumber, library.Students)

	return taken && holder.ID != student.ID
}
