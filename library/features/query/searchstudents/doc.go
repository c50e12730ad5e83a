// Package searchstudents implements the Search Students query use case.
//
// Students are matched accent- and case-insensitively on name, surname, full name, student number
// and email, and sorted by name. Each entry carries the student's open and overdue loan counts.
package searchstudents
