// Package returnbookcopy implements the Return Book Copy use case.
//
// A loan is closed either by its id or by the barcode of the lent copy. Closing sets the return
// date; the copy is then flagged available again. A loan can only be returned once: a second
// return fails with core.ErrAlreadyReturned and leaves the first return date untouched.
//
// Writes follow the same rules as borrowbookcopy: atomic when the store supports it,
// loan first and copy second otherwise.
package returnbookcopy
