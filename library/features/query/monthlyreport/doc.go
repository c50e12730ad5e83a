// Package monthlyreport implements the Monthly Report query use case.
//
// A loan counts as borrowed in the month of its borrow date and as returned in the month of its
// return date, both taken in UTC. A loan borrowed and returned in the same month appears in both lists.
package monthlyreport
