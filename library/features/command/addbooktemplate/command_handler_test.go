package addbooktemplate_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/docstore/memengine"
	"github.com/AntonStoeckl/library-lending-go/library/features/command/addbooktemplate"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
	"github.com/AntonStoeckl/library-lending-go/testutil/faultystore"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
)

var fixtureTime = time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)

func Test_CommandHandler_Handle_InsertsThenIsIdempotent(t *testing.T) {
	// setup
	ctx := context.Background()
	store := memengine.NewDocumentStore(memengine.WithIDGenerator(func() string { return "tpl-new" }))
	handler := addbooktemplate.NewCommandHandler(store, grantedOnlineGate())
	command := addbooktemplate.BuildCommand("Kuyucaklı Yusuf", "Sabahattin Ali", "9789750719387", "YKY", "", "Novel", "")

	// act
	first, firstErr := handler.Handle(ctx, command)
	second, secondErr := handler.Handle(ctx, command)

	// assert
	require.NoError(t, firstErr)
	assert.False(t, first.Idempotent)
	assert.Equal(t, "tpl-new", first.PrimaryID())

	require.NoError(t, secondErr)
	assert.True(t, second.Idempotent)
	assert.Equal(t, "tpl-new", second.PrimaryID())

	library := fixtures.Load(ctx, t, store)
	require.Len(t, library.Templates, 1)
	assert.Equal(t, "Sabahattin Ali", library.Templates[0].Author)
}

func Test_CommandHandler_Handle_RequiresManageBooks(t *testing.T) {
	// setup
	store := faultystore.Wrap(memengine.NewDocumentStore())
	gate := shell.NewGate(shell.NewStaticPermissions(shell.PermissionManageBorrowing), shell.NewConnectivityFlag(true))
	handler := addbooktemplate.NewCommandHandler(store, gate)

	// act
	_, err := handler.Handle(context.Background(), addbooktemplate.BuildCommand("Title", "", "", "", "", "", ""))

	// assert
	assert.ErrorIs(t, err, core.ErrPermissionDenied)
	assert.Empty(t, store.Calls())
}

func Test_CommandHandler_Handle_InsertFailure(t *testing.T) {
	// setup
	store := faultystore.Wrap(memengine.NewDocumentStore()).
		FailOn(faultystore.OpInsert, shell.CollectionBookTemplates, errors.New("disk full"))
	handler := addbooktemplate.NewCommandHandler(store, grantedOnlineGate())

	// act
	_, err := handler.Handle(context.Background(), addbooktemplate.BuildCommand("Title", "", "", "", "", "", ""))

	// assert
	assert.ErrorIs(t, err, core.ErrStoreFailure)
	assert.Equal(t, core.FailureReasonStoreFailure, core.FailureReason(err))
}

func grantedOnlineGate() shell.Gate {
	return shell.NewGate(shell.NewStaticPermissions(shell.AllPermissions()...), shell.NewConnectivityFlag(true))
}
