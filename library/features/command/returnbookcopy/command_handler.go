package returnbookcopy

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/docstore"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// CommandHandler orchestrates the return workflow: Gate -> Load -> Decide -> Write.
// External wrappers handle all observability concerns.
type CommandHandler struct {
	store        shell.DocumentStore
	gate         shell.Gate
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions configures the retry of the copy write that follows the loan write.
// Without it the copy write is attempted once.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(store shell.DocumentStore, gate shell.Gate, opts ...Option) CommandHandler {
	handler := CommandHandler{
		store:        store,
		gate:         gate,
		retryOptions: []shell.RetryOption{shell.WithMaxAttempts(1)},
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the return workflow.
// On success the HandlerResult lists the loan id first, then the copy id if the copy still exists.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := h.gate.CheckMutation(ctx, shell.PermissionManageBorrowing); err != nil {
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

	return shell.ApplyLoanWrite(ctx, h.store, shell.LoanWrite{
		Loan: decision.Loan,
		Copy: decision.Copy,
	}, h.retryOptions...)
}
