// Package mostborrowedtemplates implements the Most Borrowed Templates query use case.
//
// Loans are grouped by the template of their copy and ranked by count. Ties keep the order in which
// the templates first appear among the loans. Loans whose copy cannot be resolved are not counted.
package mostborrowedtemplates
