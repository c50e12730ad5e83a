package registerstudent

import (
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

// Decision is the outcome of Decide.
type Decision struct {
	core.DecisionResult

	Student core.Student
}

// Decide validates the new student against the roster.
//
// Business Rules:
//
//	GIVEN: student number, name, surname, email
//	WHEN:  RegisterStudent is received
//	THEN:  a new active student is inserted
//	ERROR: ErrInvalidStudentNumber, ErrMissingName, ErrStudentNumberTaken
func Decide(roster []core.Student, command Command) Decision {
	student := core.Student{
		Name:          command.Name,
		Surname:       command.Surname,
		StudentNumber: command.StudentNumber,
		Email:         command.Email,
		Lifecycle:     core.Active(),
	}

	if err := core.ValidateNewStudent(student, roster); err != nil {
		return Decision{DecisionResult: core.ErrorDecision(err)}
	}

	return Decision{DecisionResult: core.SuccessDecision(), Student: student}
}
