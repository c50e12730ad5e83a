// Package registerstudent implements the Register Student use case.
//
// The student number has exactly 8 digits and is unique among active students. Requires
// MANAGE_STUDENTS and a connection.
package registerstudent
