// Package fixtures provides builders for library records and a helper that seeds them into a document store.
//
// The builders fill in sensible defaults so tests only spell out the fields they care about.
package fixtures
