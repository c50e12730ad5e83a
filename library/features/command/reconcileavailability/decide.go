package reconcileavailability

import (
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// Decision lists the copies to rewrite, each carrying its corrected flag.
type Decision struct {
	core.DecisionResult

	Corrections []core.AvailabilityCorrection
}

// Decide compares every copy's stored flag with its loans.
//
// Business Rules:
//
//	GIVEN: the copies and loans of the library
//	WHEN:  ReconcileAvailability is received
//	THEN:  every copy whose isAvailable differs from "no open loan" is corrected
//	IDEMPOTENCY: nothing to correct
func Decide(library core.Collections, _ Command) Decision {
	corrections := core.ReconcileAvailability(library.Copies, library.Loans)
	if len(corrections) == 0 {
		return Decision{DecisionResult: core.IdempotentDecision()}
	}

	return Decision{DecisionResult: core.SuccessDecision(), Corrections: corrections}
}
