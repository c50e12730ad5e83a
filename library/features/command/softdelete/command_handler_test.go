package softdelete_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/docstore/memengine"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/registerstudent"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/softdelete"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
	"github.com/AntonStoeckl/library-lending-go/testutil/faultystore"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
)

func Test_CommandHandler_Handle_DeleteThenRestore(t *testing.T) {
	// setup
	ctx, inner := setupTestEnvironment(t)
	store := faultystore.Wrap(inner)
	handler := softdelete.NewCommandHandler(store, grantedOnlineGate())

	// act
	deleteResult, deleteErr := handler.Handle(ctx, softdelete.BuildDeleteCommand(softdelete.KindCopy, "copy-2", now))
	afterDelete := fixtures.Load(ctx, t, inner)
	restoreResult, restoreErr := handler.Handle(ctx, softdelete.BuildRestoreCommand(softdelete.KindCopy, "copy-2", now))
	afterRestore := fixtures.Load(ctx, t, inner)

	// assert
	require.NoError(t, deleteErr)
	require.NoError(t, restoreErr)
	assert.Equal(t, "copy-2", deleteResult.PrimaryID())
	assert.Equal(t, "copy-2", restoreResult.PrimaryID())

	deleted, found := afterDelete.CopyByID("copy-2")
	require.True(t, found, "a soft-deleted copy stays in the store")
	assert.True(t, deleted.Lifecycle.IsDeleted())
	assert.Equal(t, "LIB001002", deleted.Barcode)

	restored, _ := afterRestore.CopyByID("copy-2")
	assert.False(t, restored.Lifecycle.IsDeleted())

	for _, write := range store.Writes() {
		assert.Equal(t, faultystore.OpUpdateFields, write.Op, "only lifecycle fields should be written")
	}
}

func Test_CommandHandler_Handle_DeletingTwiceIsIdempotent(t *testing.T) {
	// setup
	ctx, inner := setupTestEnvironment(t)
	store := faultystore.Wrap(inner)
	handler := softdelete.NewCommandHandler(store, grantedOnlineGate())

	_, err := handler.Handle(ctx, softdelete.BuildDeleteCommand(softdelete.KindStudent, "s1", now))
	require.NoError(t, err)
	writesBefore := len(store.Writes())

	// act
	result, err := handler.Handle(ctx, softdelete.BuildDeleteCommand(softdelete.KindStudent, "s1", now.Add(time.Hour)))

	// assert
	assert.ErrorIs(t, err, core.ErrAlreadyDeleted)
	assert.True(t, core.IsPolicyViolation(err))
	assert.True(t, result.Idempotent)
	assert.Len(t, store.Writes(), writesBefore)

	student, _ := fixtures.Load(ctx, t, inner).StudentByID("s1")
	at, _ := student.Lifecycle.DeletedAt()
	assert.Equal(t, now, at, "the first deletion time is kept")
}

func Test_CommandHandler_Handle_RestoreRejectsStudentNumberRegisteredAgain(t *testing.T) {
	// setup
	ctx, inner := setupTestEnvironment(t)
	store := faultystore.Wrap(inner)
	handler := softdelete.NewCommandHandler(store, grantedOnlineGate())
	register := registerstudent.NewCommandHandler(inner, grantedOnlineGate())

	_, err := handler.Handle(ctx, softdelete.BuildDeleteCommand(softdelete.KindStudent, "s1", now))
	require.NoError(t, err)
	_, err = register.Handle(ctx, registerstudent.BuildCommand("12345678", "Bora", "Aydın", ""))
	require.NoError(t, err)
	writesBefore := len(store.Writes())

	// act
	result, err := handler.Handle(ctx, softdelete.BuildRestoreCommand(softdelete.KindStudent, "s1", now))

	// assert
	assert.ErrorIs(t, err, core.ErrStudentNumberTaken)
	assert.False(t, result.Idempotent)
	assert.Len(t, store.Writes(), writesBefore)

	active := 0
	for _, student := range fixtures.Load(ctx, t, inner).Students {
		if student.StudentNumber == "12345678" && !student.Lifecycle.IsDeleted() {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func Test_CommandHandler_Handle_PermissionDependsOnKind(t *testing.T) {
	tests := []struct {
		name        string
		granted     shell.Permission
		command     softdelete.Command
		expectedErr error
	}{
		{
			name:    "books permission deletes templates",
			granted: shell.PermissionManageBooks,
			command: softdelete.BuildDeleteCommand(softdelete.KindTemplate, "tpl-1", now),
		},
		{
			name:        "books permission cannot delete students",
			granted:     shell.PermissionManageBooks,
			command:     softdelete.BuildDeleteCommand(softdelete.KindStudent, "s1", now),
			expectedErr: core.ErrPermissionDenied,
		},
		{
			name:    "students permission deletes students",
			granted: shell.PermissionManageStudents,
			command: softdelete.BuildDeleteCommand(softdelete.KindStudent, "s1", now),
		},
		{
			name:        "borrowing permission cannot delete copies",
			granted:     shell.PermissionManageBorrowing,
			command:     softdelete.BuildDeleteCommand(softdelete.KindCopy, "copy-2", now),
			expectedErr: core.ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// setup
			ctx, store := setupTestEnvironment(t)
			gate := shell.NewGate(shell.NewStaticPermissions(tt.granted), shell.NewConnectivityFlag(true))
			handler := softdelete.NewCommandHandler(store, gate)

			// act
			_, err := handler.Handle(ctx, tt.command)

			// assert
			if tt.expectedErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func Test_CommandHandler_Handle_OfflineTouchesNothing(t *testing.T) {
	// setup
	ctx, inner := setupTestEnvironment(t)
	store := faultystore.Wrap(inner)
	gate := shell.NewGate(shell.NewStaticPermissions(shell.AllPermissions()...), shell.NewConnectivityFlag(false))
	handler := softdelete.NewCommandHandler(store, gate)

	// act
	_, err := handler.Handle(ctx, softdelete.BuildDeleteCommand(softdelete.KindTemplate, "tpl-1", now))

	// assert
	assert.ErrorIs(t, err, core.ErrOffline)
	assert.Empty(t, store.Calls())
}

func Test_CommandHandler_Handle_UpdateFailureIsStoreFailure(t *testing.T) {
	// setup
	ctx, inner := setupTestEnvironment(t)
	store := faultystore.Wrap(inner).FailOn(faultystore.OpUpdateFields, shell.CollectionBookTemplates, errors.New("disk full"))
	handler := softdelete.NewCommandHandler(store, grantedOnlineGate())

	// act
	result, err := handler.Handle(ctx, softdelete.BuildDeleteCommand(softdelete.KindTemplate, "tpl-1", now))

	// assert
	assert.ErrorIs(t, err, core.ErrStoreFailure)
	assert.Empty(t, result.DocumentIDs)

	template, _ := fixtures.Load(ctx, t, inner).TemplateByID("tpl-1")
	assert.False(t, template.Lifecycle.IsDeleted())
}

func setupTestEnvironment(t *testing.T) (context.Context, *memengine.DocumentStore) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	store := memengine.NewDocumentStore()
	fixtures.Seed(ctx, t, store, givenLibrary())

	return ctx, store
}

func grantedOnlineGate() shell.Gate {
	return shell.NewGate(shell.NewStaticPermissions(shell.AllPermissions()...), shell.NewConnectivityFlag(true))
}
