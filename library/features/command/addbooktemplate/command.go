package addbooktemplate

import (
	"strings"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const (
	commandType = "AddBookTemplate"
)

// Command represents the intent to add a title to the catalog.
type Command struct {
	Title       string
	Author      string
	ISBN        string
	Publisher   string
	Editor      string
	Category    string
	Description string
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with trimmed fields and a normalized ISBN.
func BuildCommand(title, author, isbn, publisher, editor, category, description string) Command {
	return Command{
		Title:       strings.TrimSpace(title),
		Author:      strings.TrimSpace(author),
		ISBN:        core.NormalizeISBN(isbn),
		Publisher:   strings.TrimSpace(publisher),
		Editor:      strings.TrimSpace(editor),
		Category:    strings.TrimSpace(category),
		Description: strings.TrimSpace(description),
	}
}
