package addbookcopies

import (
	"strings"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const (
	commandType = "AddBookCopies"
)

// Command represents the intent to add CopyCount copies of a template.
type Command struct {
	TemplateID core.TemplateIDString
	CopyCount  int
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command.
func BuildCommand(templateID string, copyCount int) Command {
	return Command{
		TemplateID: strings.TrimSpace(templateID),
		CopyCount:  copyCount,
	}
}
