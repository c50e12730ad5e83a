// Package reconcileavailability implements the availability repair use case.
//
// An ordered borrow or return whose copy write failed leaves a copy whose isAvailable flag
// disagrees with its loans. This command recomputes the flag of every copy from the open loans
// and writes only the copies that are wrong. A consistent library is an idempotent no-op.
package reconcileavailability
