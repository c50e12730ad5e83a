package softdelete

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// CommandHandler orchestrates the workflow: Gate -> Load -> Decide -> UpdateFields.
type CommandHandler struct {
	store shell.DocumentStore
	gate  shell.Gate
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store shell.DocumentStore, gate shell.Gate) CommandHandler {
	return CommandHandler{store: store, gate: gate}
}

// Handle executes the workflow. Only the lifecycle fields of the document are written.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := h.gate.CheckMutation(ctx, command.Kind.Permission()); err != nil {
		return shell.NewErrorResult(shell.WriteModeNone), err
	}

	ctx = docstore.WithStrongConsistency(ctx)

	library, err := shell.LoadCollections(ctx, h.store)
	if err != nil {
		return shell.NewErrorResult(shell.WriteModeNone), err
	}

	decision := Decide(library, command)

	if decisionErr := decision.HasError(); decisionErr != nil {
		return shell.NewErrorResult(shell.WriteModeNone), decisionErr
	}

	if decision.IsIdempotent() {
		return shell.NewIdempotentResult(), decision.IdempotentReason
	}

	updateErr := h.store.UpdateFields(ctx, command.Kind.Collection(), command.ID, shell.LifecycleUpdate(decision.Lifecycle))
	if updateErr != nil {
		return shell.NewErrorResult(shell.WriteModeOrdered), core.StoreFailure(updateErr)
	}

	return shell.NewSuccessResult(shell.WriteModeOrdered, command.ID), nil
}
