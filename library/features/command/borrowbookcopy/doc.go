// Package borrowbookcopy implements the Borrow Book Copy use case.
//
// A student, identified by the 8-digit student number, borrows one copy, identified by its barcode.
// The handler follows the Gate-Load-Decide-Write pattern: the access gate (MANAGE_BORROWING, online)
// is checked before the store is touched, the library collections are loaded and reconciled,
// the pure Decide function applies the borrowing rules, and the new loan plus the copy's
// availability are written.
//
// On stores with atomic multi-document writes both writes happen in one statement. Otherwise the
// loan is written first and the copy second; a failing copy write leaves the loan in place and is
// repaired by the availability reconciliation.
package borrowbookcopy
