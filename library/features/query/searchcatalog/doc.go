// Package searchcatalog implements the Search Catalog query use case.
//
// Templates are matched accent- and case-insensitively on title, author, ISBN and publisher,
// optionally restricted to one category, and sorted by title. Deleted templates are never listed.
// Each entry carries how many active copies the template has and how many of them are available.
package searchcatalog
