// Package softdelete implements deleting and restoring templates, copies and students.
//
// Records are never removed from the store. Deleting moves the lifecycle to Deleted(at), restoring
// moves it back to Active; only the isDeleted and deletedAt fields of the document change.
//
// Deleting a deleted record or restoring an active one changes nothing: the handler reports an
// idempotent result together with core.ErrAlreadyDeleted or core.ErrNotDeleted. A copy with an open
// loan cannot be deleted. Templates and copies require MANAGE_BOOKS, students MANAGE_STUDENTS.
package softdelete
