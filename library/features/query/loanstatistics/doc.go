// Package loanstatistics implements the Loan Statistics query use case: total, active, returned
// and overdue loan counts plus the return rate in percent.
package loanstatistics
