package core

// DecisionResult is the outcome of a Decide function in a command slice.
//
// Construct it only with IdempotentDecision, SuccessDecision or ErrorDecision.
// The slice specific payload (the records to write) travels next to it.
type DecisionResult struct {
	Outcome string // "idempotent", "success", or "error"
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	errorOutcome      = "error"
)

// IdempotentDecision signals that the desired state already holds and nothing must be written.
func IdempotentDecision() DecisionResult {
	return DecisionResult{Outcome: idempotentOutcome}
}

// SuccessDecision signals that the payload must be written.
func SuccessDecision() DecisionResult {
	return DecisionResult{Outcome: successOutcome}
}

// ErrorDecision signals a business rule violation. Nothing must be written.
func ErrorDecision(err error) DecisionResult {
	return DecisionResult{Outcome: errorOutcome, Err: err}
}

// HasWritesToApply returns true if the payload must be written to the store.
func (r DecisionResult) HasWritesToApply() bool {
	return r.Outcome == successOutcome
}

func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
