// Package activeloans implements the Active Loans query use case.
//
// The view lists every open loan with its copy barcode, template title, student and due date.
// It is computed from a library snapshot and works offline on the last cached snapshot;
// the result then reports itself as stale.
package activeloans
