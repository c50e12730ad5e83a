package borrowbookcopy

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const (
	commandType = "BorrowBookCopy"
)

// Command represents the intent of a student to borrow one book copy.
type Command struct {
	StudentNumber string
	Barcode       string
	OccurredAt    time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command. Surrounding whitespace of the identifiers is removed.
func BuildCommand(studentNumber string, barcode string, occurredAt time.Time) Command {
	return Command{
		StudentNumber: strings.TrimSpace(studentNumber),
		Barcode:       strings.ToUpper(strings.TrimSpace(barcode)),
		OccurredAt:    core.ToStoredTime(occurredAt),
	}
}
