package returnbookcopy

import (
	"strings"
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

const (
	commandType = "ReturnBookCopy"
)

// Command represents the intent to close a loan. Exactly one of LoanID and Barcode is set.
type Command struct {
	LoanID     core.LoanIDString
	Barcode    string
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a Command that closes the loan with the given id.
func BuildCommand(loanID string, occurredAt time.Time) Command {
	return Command{
		LoanID:     strings.TrimSpace(loanID),
		OccurredAt: core.ToStoredTime(occurredAt),
	}
}

// BuildCommandByBarcode creates a Command that closes the open loan of the copy with the given barcode.
func BuildCommandByBarcode(barcode string, occurredAt time.Time) Command {
	return Command{
		Barcode:    strings.ToUpper(strings.TrimSpace(barcode)),
		OccurredAt: core.ToStoredTime(occurredAt),
	}
}
