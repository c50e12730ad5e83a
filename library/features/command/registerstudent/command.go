package registerstudent

import (
	"strings"
)

const (
	commandType = "RegisterStudent"
)

// Command represents the intent to add a student to the roster.
type Command struct {
	StudentNumber string
	Name          string
	Surname       string
	Email         string
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with trimmed fields.
func BuildCommand(studentNumber, name, surname, email string) Command {
	return Command{
		StudentNumber: strings.TrimSpace(studentNumber),
		Name:          strings.TrimSpace(name),
		Surname:       strings.TrimSpace(surname),
		Email:         strings.TrimSpace(email),
	}
}
