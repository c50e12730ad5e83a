package loanstatistics

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// QueryHandler orchestrates the workflow: Load snapshot -> Project.
type QueryHandler struct {
	loader shell.LoadsLibrarySnapshot
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(loader shell.LoadsLibrarySnapshot) QueryHandler {
	return QueryHandler{loader: loader}
}

// Handle loads the current snapshot and projects the view.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LoanStatistics, error) {
	snapshot, err := h.loader.Load(ctx)
	if err != nil {
		return LoanStatistics{}, err
	}

	return ProjectLoanStatistics(snapshot, query), nil
}
