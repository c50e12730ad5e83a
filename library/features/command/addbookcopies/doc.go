// Package addbookcopies implements the Add Book Copies use case.
//
// New physical copies of a catalog template get consecutive copy numbers within the template's
// book id and one LIB barcode each. All new copies are available. Copies are inserted one by one;
// if an insert fails, the copies inserted before stay and their ids are reported.
package addbookcopies
