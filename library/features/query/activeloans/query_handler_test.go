package activeloans_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/docstore/memengine"
	"github.com/AntonStoeckl/library-lending-go/library/features/query/activeloans"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell"
	"github.com/AntonStoeckl/library-lending-go/library/shared/shell/snapshot"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
)

var now = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func givenLibrary() core.Collections {
	return core.Collections{
		Templates: []core.BookTemplate{
			fixtures.Template("tpl-1", "Sefiller"),
			fixtures.Template("tpl-2", "Suç ve Ceza"),
		},
		Copies: []core.BookCopy{
			fixtures.Lent(fixtures.Copy("copy-1", "tpl-1", 1, 1)),
			fixtures.Copy("copy-2", "tpl-2", 2, 1),
			fixtures.Lent(fixtures.Copy("copy-3", "tpl-2", 2, 2)),
		},
		Students: []core.Student{
			fixtures.Student("s1", "12345678", "Ayşe", "Yılmaz"),
			fixtures.Student("s2", "87654321", "Mehmet", "Kaya"),
		},
		Loans: []core.BorrowedBook{
			fixtures.OpenLoan("loan-1", "copy-1", "s1", now.AddDate(0, 0, -3)),
			fixtures.ReturnedLoan("loan-2", "copy-2", "s1", now.AddDate(0, 0, -30), now.AddDate(0, 0, -25)),
			fixtures.OpenLoan("loan-3", "copy-3", "s2", now.AddDate(0, 0, -20)),
		},
	}
}

func Test_QueryHandler_Handle_ListsOpenLoansWithReferences(t *testing.T) {
	// setup
	ctx := testContext(t)
	handler := activeloans.NewQueryHandler(fixtures.SnapshotLoader(ctx, t, givenLibrary()))

	// act
	result, err := handler.Handle(ctx, activeloans.BuildQuery(now))

	// assert
	require.NoError(t, err)
	assert.False(t, result.IsStale())
	require.Equal(t, 2, result.Count)
	require.Len(t, result.Loans, 2)

	first := result.Loans[0]
	assert.Equal(t, "loan-1", first.Loan.ID)
	assert.Equal(t, "LIB001001", first.Barcode)
	assert.Equal(t, "Sefiller", first.Title)
	assert.Equal(t, "Ayşe Yılmaz", first.StudentName)
	assert.Equal(t, 11, first.RemainingDays)
	assert.False(t, first.IsOverdue)

	second := result.Loans[1]
	assert.Equal(t, "loan-3", second.Loan.ID)
	assert.True(t, second.IsOverdue)
	assert.Equal(t, 6, second.OverdueDays)
}

func Test_QueryHandler_Handle_OfflineServesCachedSnapshot(t *testing.T) {
	// setup
	ctx := testContext(t)
	connectivity := shell.NewConnectivityFlag(true)
	loader := fixtures.SnapshotLoader(ctx, t, givenLibrary(),
		snapshot.WithCache(memengine.NewSnapshotCache()),
		snapshot.WithConnectivity(connectivity),
	)
	handler := activeloans.NewQueryHandler(loader)

	_, err := handler.Handle(ctx, activeloans.BuildQuery(now))
	require.NoError(t, err, "the online read should fill the cache")
	connectivity.SetOnline(false)

	// act
	result, err := handler.Handle(ctx, activeloans.BuildQuery(now))

	// assert
	require.NoError(t, err)
	assert.True(t, result.IsStale())
	assert.Equal(t, 2, result.Count)
}

func Test_QueryHandler_Handle_OfflineWithoutCacheFails(t *testing.T) {
	// setup
	ctx := testContext(t)
	loader := fixtures.SnapshotLoader(ctx, t, givenLibrary(), snapshot.WithConnectivity(shell.NewConnectivityFlag(false)))
	handler := activeloans.NewQueryHandler(loader)

	// act
	_, err := handler.Handle(ctx, activeloans.BuildQuery(now))

	// assert
	assert.ErrorIs(t, err, core.ErrOffline)
}

func testContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	return ctx
}
