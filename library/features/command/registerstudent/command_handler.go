package registerstudent

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// CommandHandler orchestrates the workflow: Gate -> Query roster -> Decide -> Insert.
type CommandHandler struct {
	store shell.DocumentStore
	gate  shell.Gate
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store shell.DocumentStore, gate shell.Gate) CommandHandler {
	return CommandHandler{store: store, gate: gate}
}

// Handle executes the workflow. On success the HandlerResult carries the new student id.
// Only students holding the requested number are read, through a filtered store query.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := h.gate.CheckMutation(ctx, shell.PermissionManageStudents); err != nil {
		return shell.NewErrorResult(shell.WriteModeNone), err
	}

	ctx = docstore.WithStrongConsistency(ctx)

	roster, err := shell.QueryStudents(ctx, h.store, BuildRosterQuery(command.StudentNumber))
	if err != nil {
		return shell.NewErrorResult(shell.WriteModeNone), err
	}

	decision := Decide(roster, command)

	if decisionErr := decision.HasError(); decisionErr != nil {
		return shell.NewErrorResult(shell.WriteModeNone), decisionErr
	}

	document, err := shell.StudentDocument(decision.Student)
	if err != nil {
		return shell.NewErrorResult(shell.WriteModeNone), err
	}

	id, err := h.store.Insert(ctx, document)
	if err != nil {
		return shell.NewErrorResult(shell.WriteModeOrdered), core.StoreFailure(err)
	}

	return shell.NewSuccessResult(shell.WriteModeOrdered, id), nil
}

// BuildRosterQuery selects the students holding studentNumber.
func BuildRosterQuery(studentNumber string) docstore.Query {
	return docstore.BuildQuery(shell.CollectionStudents).
		Where(docstore.P(shell.FieldStudentNumber, studentNumber)).
		Finalize()
}
