// Package addbooktemplate implements the Add Book Template use case.
//
// A template is the catalog record of a title. It requires a title; an ISBN is optional and
// validated by shape. Adding a template whose ISBN and title match an active template is an
// idempotent no-op. Requires MANAGE_BOOKS and a connection.
package addbooktemplate
