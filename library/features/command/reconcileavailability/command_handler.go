package reconcileavailability

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// CommandHandler orchestrates the workflow: Gate -> Load -> Decide -> UpdateFields per correction.
type CommandHandler struct {
	store shell.DocumentStore
	gate  shell.Gate
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store shell.DocumentStore, gate shell.Gate) CommandHandler {
	return CommandHandler{store: store, gate: gate}
}

// Handle executes the workflow. The HandlerResult lists the ids of the corrected copies.
// Corrections are independent: a failed update stops the run, the copies fixed before stay fixed.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := h.gate.CheckMutation(ctx, shell.PermissionManageBooks); err != nil {
		return shell.NewErrorResult(shell.WriteModeNone), err
	}

	ctx = docstore.WithStrongConsistency(ctx)

	library, err := shell.LoadCollections(ctx, h.store)
	if err != nil {
		return shell.NewErrorResult(shell.WriteModeNone), err
	}

	decision := Decide(library, command)

	if decision.IsIdempotent() {
		return shell.NewIdempotentResult(), nil
	}

	ids := make([]string, 0, len(decision.Corrections))
	for _, correction := range decision.Corrections {
		updateErr := h.store.UpdateFields(ctx, shell.CollectionBookCopies, correction.Copy.ID, docstore.Fields{
			shell.FieldIsAvailable: correction.Copy.IsAvailable,
		})
		if updateErr != nil {
			return shell.NewErrorResult(shell.WriteModeOrdered, ids...), core.StoreFailure(updateErr)
		}
		ids = append(ids, correction.Copy.ID)
	}

	return shell.NewSuccessResult(shell.WriteModeOrdered, ids...), nil
}
