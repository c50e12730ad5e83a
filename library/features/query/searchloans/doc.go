// Package searchloans implements the Search Loans query use case.
//
// Loans are filtered by status (all, active, returned, overdue) and by a search text that is matched
// through each loan's references: the copy barcode, the template's title, author and ISBN, and the
// student's full name and number. The result is sorted by borrow date, newest first.
package searchloans
