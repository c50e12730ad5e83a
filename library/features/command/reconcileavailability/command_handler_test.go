package reconcileavailability_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/docstore/memengine"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/reconcileavailability"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
	"github.com/AntonStoeckl/library-lending-go/testutil/faultystore"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
)

var now = time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC)

// givenInconsistentLibrary has copy-1 on loan but flagged available, and copy-2 returned but flagged lent.
func givenInconsistentLibrary() core.Collections {
	return core.Collections{
		Templates: []core.BookTemplate{fixtures.Template("tpl-1", "Tutunamayanlar")},
		Copies: []core.BookCopy{
			fixtures.Copy("copy-1", "tpl-1", 1, 1),
			fixtures.Lent(fixtures.Copy("copy-2", "tpl-1", 1, 2)),
			fixtures.Copy("copy-3", "tpl-1", 1, 3),
		},
		Students: []core.Student{fixtures.Student("s1", "12345678", "Ayşe", "Yılmaz")},
		Loans: []core.BorrowedBook{
			fixtures.OpenLoan("loan-1", "copy-1", "s1", now.AddDate(0, 0, -2)),
			fixtures.ReturnedLoan("loan-2", "copy-2", "s1", now.AddDate(0, 0, -9), now.AddDate(0, 0, -1)),
		},
	}
}

func Test_Decide_ListsOnlyWrongFlags(t *testing.T) {
	// act
	decision := reconcileavailability.Decide(givenInconsistentLibrary(), reconcileavailability.BuildCommand())

	// assert
	require.True(t, decision.HasWritesToApply())
	require.Len(t, decision.Corrections, 2)
	assert.Equal(t, "copy-1", decision.Corrections[0].Copy.ID)
	assert.False(t, decision.Corrections[0].Copy.IsAvailable)
	assert.Equal(t, "copy-2", decision.Corrections[1].Copy.ID)
	assert.True(t, decision.Corrections[1].Copy.IsAvailable)
}

func Test_CommandHandler_Handle_RepairsThenIsIdempotent(t *testing.T) {
	// setup
	ctx, inner := setupTestEnvironment(t)
	store := faultystore.Wrap(inner)
	handler := reconcileavailability.NewCommandHandler(store, grantedOnlineGate())

	// act
	first, firstErr := handler.Handle(ctx, reconcileavailability.BuildCommand())
	second, secondErr := handler.Handle(ctx, reconcileavailability.BuildCommand())

	// assert
	require.NoError(t, firstErr)
	require.NoError(t, secondErr)
	assert.Equal(t, []string{"copy-1", "copy-2"}, first.DocumentIDs)
	assert.True(t, second.Idempotent)
	assert.Len(t, store.Writes(), 2)

	library := fixtures.Load(ctx, t, inner)
	assert.Empty(t, core.ReconcileAvailability(library.Copies, library.Loans))
}

func Test_CommandHandler_Handle_PartialFailureReportsFixedCopies(t *testing.T) {
	// setup
	ctx, inner := setupTestEnvironment(t)
	store := faultystore.Wrap(inner).FailAfter(faultystore.OpUpdateFields, shell.CollectionBookCopies, errors.New("timeout"), 1)
	handler := reconcileavailability.NewCommandHandler(store, grantedOnlineGate())

	// act
	result, err := handler.Handle(ctx, reconcileavailability.BuildCommand())

	// assert
	assert.ErrorIs(t, err, core.ErrStoreFailure)
	assert.Equal(t, []string{"copy-1"}, result.DocumentIDs)
}

func Test_CommandHandler_Handle_RequiresManageBooks(t *testing.T) {
	// setup
	ctx, inner := setupTestEnvironment(t)
	store := faultystore.Wrap(inner)
	gate := shell.NewGate(shell.NewStaticPermissions(shell.PermissionManageBorrowing), shell.NewConnectivityFlag(true))
	handler := reconcileavailability.NewCommandHandler(store, gate)

	// act
	_, err := handler.Handle(ctx, reconcileavailability.BuildCommand())

	// assert
	assert.ErrorIs(t, err, core.ErrPermissionDenied)
	assert.Empty(t, store.Calls())
}

func setupTestEnvironment(t *testing.T) (context.Context, *memengine.DocumentStore) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	store := memengine.NewDocumentStore()
	fixtures.Seed(ctx, t, store, givenInconsistentLibrary())

	return ctx, store
}

func grantedOnlineGate() shell.Gate {
	return shell.NewGate(shell.NewStaticPermissions(shell.AllPermissions()...), shell.NewConnectivityFlag(true))
}
