package shell

import "time"

// WriteMode describes how a command handler applied its writes.
type WriteMode string

const (
	// WriteModeNone is used when nothing was written.
	WriteModeNone WriteMode = "none"

	// WriteModeAtomic is used when all writes went to the store in one all-or-nothing statement.
	WriteModeAtomic WriteMode = "atomic"

	// WriteModeOrdered is used when the writes were applied one after another.
	// A failure after the first write leaves the earlier writes in place.
	WriteModeOrdered WriteMode = "ordered"
)

// HandlerResult represents the outcome of a command handler execution.
// It captures the business outcome (idempotency) and the write metadata
// without coupling the handler to specific observability implementations.
type HandlerResult struct {
	// Idempotent indicates whether the operation was idempotent (no state change needed).
	// This is a first-class business outcome, not an error condition.
	Idempotent bool

	// WriteMode tells how the writes were applied.
	WriteMode WriteMode

	// DocumentIDs are the ids of the written documents, in write order.
	// For a failed ordered write they are the ids written before the failure.
	DocumentIDs []string

	// FollowUpAttempts is the number of attempts the follow-up write of an ordered write needed.
	// It is zero when there was no follow-up write.
	FollowUpAttempts int

	// DueDate is the due date of a newly lent copy. It is zero for every other outcome.
	DueDate time.Time
}

// NewSuccessResult creates a HandlerResult for successful operations (non-idempotent).
func NewSuccessResult(mode WriteMode, documentIDs ...string) HandlerResult {
	return HandlerResult{
		Idempotent:  false,
		WriteMode:   mode,
		DocumentIDs: documentIDs,
	}
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult() HandlerResult {
	return HandlerResult{
		Idempotent: true,
		WriteMode:  WriteModeNone,
	}
}

// NewErrorResult creates a HandlerResult for failed operations.
// Handlers pass the ids written before the failure, if any.
func NewErrorResult(mode WriteMode, writtenIDs ...string) HandlerResult {
	return HandlerResult{
		Idempotent:  false,
		WriteMode:   mode,
		DocumentIDs: writtenIDs,
	}
}

// PrimaryID returns the first written document id, or an empty string.
func (r HandlerResult) PrimaryID() string {
	if len(r.DocumentIDs) == 0 {
		return ""
	}

	return r.DocumentIDs[0]
}
