package softdelete

import (
	"fmt"
	"strings"
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
)

// RecordKind names the kind of record a Command targets.
type RecordKind string

const (
	KindTemplate RecordKind = "template"
	KindCopy     RecordKind = "copy"
	KindStudent  RecordKind = "student"
)

// Action is either ActionDelete or ActionRestore.
type Action string

const (
	ActionDelete  Action = "delete"
	ActionRestore Action = "restore"
)

const (
	commandTypeDelete  = "SoftDeleteRecord"
	commandTypeRestore = "RestoreRecord"
)

// ParseRecordKind accepts template, copy and student in any case.
func ParseRecordKind(value string) (RecordKind, error) {
	switch kind := RecordKind(strings.ToLower(strings.TrimSpace(value))); kind {
	case KindTemplate, KindCopy, KindStudent:
		return kind, nil
	default:
		return "", fmt.Errorf("unknown record kind %q", value)
	}
}

// Collection returns the store collection of the kind.
func (k RecordKind) Collection() string {
	switch k {
	case KindTemplate:
		return shell.CollectionBookTemplates
	case KindCopy:
		return shell.CollectionBookCopies
	default:
		return shell.CollectionStudents
	}
}

// Permission returns the permission needed to change records of the kind.
func (k RecordKind) Permission() shell.Permission {
	if k == KindStudent {
		return shell.PermissionManageStudents
	}

	return shell.PermissionManageBooks
}

// Command represents the intent to delete or restore one record.
type Command struct {
	Kind       RecordKind
	ID         string
	Action     Action
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability and routing.
func (c Command) CommandType() string {
	if c.Action == ActionRestore {
		return commandTypeRestore
	}

	return commandTypeDelete
}

// BuildDeleteCommand creates a Command that soft-deletes a record at occurredAt.
func BuildDeleteCommand(kind RecordKind, id string, occurredAt time.Time) Command {
	return Command{
		Kind:       kind,
		ID:         strings.TrimSpace(id),
		Action:     ActionDelete,
		OccurredAt: core.ToStoredTime(occurredAt),
	}
}

// BuildRestoreCommand creates a Command that restores a soft-deleted record.
func BuildRestoreCommand(kind RecordKind, id string, occurredAt time.Time) Command {
	return Command{
		Kind:       kind,
		ID:         strings.TrimSpace(id),
		Action:     ActionRestore,
		OccurredAt: core.ToStoredTime(occurredAt),
	}
}
