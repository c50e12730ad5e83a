package addbooktemplate

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// CommandHandler orchestrates the workflow: Gate -> Load -> Decide -> Insert.
type CommandHandler struct {
	store shell.DocumentStore
	gate  shell.Gate
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(store shell.DocumentStore, gate shell.Gate) CommandHandler {
	return CommandHandler{store: store, gate: gate}
}

// Handle executes the workflow. On success the HandlerResult carries the new template id.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := h.gate.CheckMutation(ctx, shell.PermissionManageBooks); err != nil {
		return shell.NewErrorResult(shell.WriteModeNone), err
	}

	ctx = docstore.WithStrongConsistency(ctx)

	library, err := shell.LoadCollections(ctx, h.store)
	if err != nil {
		return shell.NewErrorResult(shell.WriteModeNone), err
	}

	decision := Decide(library.Templates, command)

	if decisionErr := decision.HasError(); decisionErr != nil {
		return shell.NewErrorResult(shell.WriteModeNone), decisionErr
	}

	if decision.IsIdempotent() {
		result := shell.NewIdempotentResult()
		result.DocumentIDs = []string{decision.Template.ID}

		return result, nil
	}

	document, err := shell.TemplateDocument(decision.Template)
	if err != nil {
		return shell.NewErrorResult(shell.WriteModeNone), err
	}

	id, err := h.store.Insert(ctx, document)
	if err != nil {
		return shell.NewErrorResult(shell.WriteModeOrdered), core.StoreFailure(err)
	}

	return shell.NewSuccessResult(shell.WriteModeOrdered, id), nil
}
