package addbookcopies

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// CommandHandler orchestrates the workflow: Gate -> Load -> Decide -> Insert each copy.
type CommandHandler struct {
	store shell.DocumentStore
	gate  shell.Gate
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store shell.DocumentStore, gate shell.Gate) CommandHandler {
	return CommandHandler{store: store, gate: gate}
}

// Handle executes the workflow. The HandlerResult lists the ids of the inserted copies in copy number order.
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

	if decisionErr := decision.HasError(); decisionErr != nil {
		return shell.NewErrorResult(shell.WriteModeNone), decisionErr
	}

	documents := make([]docstore.Document, 0, len(decision.Copies))
	for _, bookCopy := range decision.Copies {
		document, mapErr := shell.CopyDocument(bookCopy)
		if mapErr != nil {
			return shell.NewErrorResult(shell.WriteModeNone), mapErr
		}
		documents = append(documents, document)
	}

	ids := make([]string, 0, len(documents))
	for _, document := range documents {
		id, insertErr := h.store.Insert(ctx, document)
		if insertErr != nil {
			return shell.NewErrorResult(shell.WriteModeOrdered, ids...), core.StoreFailure(insertErr)
		}
		ids = append(ids, id)
	}

	return shell.NewSuccessResult(shell.WriteModeOrdered, ids...), nil
}
