package addbookcopies_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/docstore/memengine"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbookcopies"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
	"github.com/AntonStoeckl/library-lending-go/testutil/faultystore"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
)

func Test_CommandHandler_Handle_InsertsCopies(t *testing.T) {
	// setup
	ctx := context.Background()
	store := givenStore(ctx, t)
	handler := addbookcopies.NewCommandHandler(store, grantedOnlineGate())

	// act
	result, err := handler.Handle(ctx, addbookcopies.BuildCommand("tpl-1", 3))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"new-1", "new-2", "new-3"}, result.DocumentIDs)

	library := fixtures.Load(ctx, t, store)
	copies := library.CopiesOfTemplate("tpl-1")
	assert.Len(t, copies, 5)

	added, found := library.CopyByID("new-3")
	require.True(t, found)
	assert.Equal(t, "LIB001005", added.Barcode)
}

func Test_CommandHandler_Handle_PartialFailureReportsInsertedCopies(t *testing.T) {
	// setup
	ctx := context.Background()
	inner := givenStore(ctx, t)
	store := faultystore.Wrap(inner).FailAfter(faultystore.OpInsert, shell.CollectionBookCopies, errors.New("write conflict"), 1)
	handler := addbookcopies.NewCommandHandler(store, grantedOnlineGate())

	// act
	result, err := handler.Handle(ctx, addbookcopies.BuildCommand("tpl-1", 3))

	// assert
	assert.ErrorIs(t, err, core.ErrStoreFailure)
	assert.Equal(t, shell.WriteModeOrdered, result.WriteMode)
	assert.Equal(t, []string{"new-1"}, result.DocumentIDs)
	assert.Len(t, fixtures.Load(ctx, t, inner).Copies, 3)
}

func Test_CommandHandler_Handle_OfflineFailsFast(t *testing.T) {
	// setup
	store := faultystore.Wrap(memengine.NewDocumentStore())
	gate := shell.NewGate(shell.NewStaticPermissions(shell.AllPermissions()...), shell.NewConnectivityFlag(false))
	handler := addbookcopies.NewCommandHandler(store, gate)

	// act
	_, err := handler.Handle(context.Background(), addbookcopies.BuildCommand("tpl-1", 1))

	// assert
	assert.ErrorIs(t, err, core.ErrOffline)
	assert.Empty(t, store.Calls())
}

func givenStore(ctx context.Context, t *testing.T) *memengine.DocumentStore {
	t.Helper()

	sequence := 0
	store := memengine.NewDocumentStore(memengine.WithIDGenerator(func() string {
		sequence++
		return fmt.Sprintf("new-%d", sequence)
	}))

	fixtures.Seed(ctx, t, store, core.Collections{
		Templates: []core.BookTemplate{fixtures.Template("tpl-1", "Çalıkuşu")},
		Copies: []core.BookCopy{
			fixtures.Copy("copy-1", "tpl-1", 1, 1),
			fixtures.Copy("copy-2", "tpl-1", 1, 2),
		},
	})

	return store
}

func grantedOnlineGate() shell.Gate {
	return shell.NewGate(shell.NewStaticPermissions(shell.AllPermissions()...), shell.NewConnectivityFlag(true))
}
