package core

import (
	"time"
)

// Lifecycle is the soft-delete state of a template, copy or student: either Active or Deleted(at).
// The zero value is Active. A deleted Lifecycle always carries its deletion time.
type Lifecycle struct {
	deleted   bool
	deletedAt time.Time
}

// Active returns the Lifecycle of a record in normal use.
func Active() Lifecycle {
	return Lifecycle{}
}

// Deleted returns the Lifecycle of a record soft-deleted at the given time.
func Deleted(at time.Time) Lifecycle {
	return Lifecycle{deleted: true, deletedAt: ToStoredTime(at)}
}

func (l Lifecycle) IsDeleted() bool {
	return l.deleted
}

// DeletedAt returns the deletion time and true, or the zero time and false for an active record.
func (l Lifecycle) DeletedAt() (time.Time, bool) {
	return l.deletedAt, l.deleted
}

func (l Lifecycle) String() string {
	if l.deleted {
		return "deleted"
	}

	return "active"
}

// SoftDelete moves an active record to Deleted(at). A deleted record reports ErrAlreadyDeleted.
func (l Lifecycle) SoftDelete(at time.Time) (Lifecycle, error) {
	if l.deleted {
		return l, ErrAlreadyDeleted
	}

	return Deleted(at), nil
}

// Restore moves a deleted record back to Active. An active record reports ErrNotDeleted.
func (l Lifecycle) Restore() (Lifecycle, error) {
	if !l.deleted {
		return l, ErrNotDeleted
	}

	return Active(), nil
}
