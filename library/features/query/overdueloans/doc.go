// Package overdueloans implements the Overdue Loans query use case.
//
// A loan is overdue when it is open and the current UTC day is after its due day.
// The view is sorted by days overdue, longest first.
package overdueloans
