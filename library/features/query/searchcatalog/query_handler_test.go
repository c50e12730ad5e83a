package searchcatalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/features/query/searchcatalog"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
)

var now = time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)

func givenLibrary() core.Collections {
	istanbul := fixtures.Template("tpl-ist", "İstanbul Hatırası")
	istanbul.Category = "Polisiye"

	kuyucakli := fixtures.Template("tpl-kuy", "Kuyucaklı Yusuf")
	kuyucakli.Publisher = "İstanbul Yayınları"

	removed := fixtures.Template("tpl-del", "İstanbul Kitabı")
	removed.Lifecycle = fixtures.SoftDeleted(now)

	deletedCopy := fixtures.Copy("copy-k3", "tpl-kuy", 2, 3)
	deletedCopy.Lifecycle = fixtures.SoftDeleted(now)

	return core.Collections{
		Templates: []core.BookTemplate{istanbul, kuyucakli, removed},
		Copies: []core.BookCopy{
			fixtures.Copy("copy-i1", "tpl-ist", 1, 1),
			fixtures.Copy("copy-k1", "tpl-kuy", 2, 1),
			fixtures.Copy("copy-k2", "tpl-kuy", 2, 2),
			deletedCopy,
		},
		Students: []core.Student{fixtures.Student("s1", "12345678", "Ayşe", "Yılmaz")},
		Loans:    []core.BorrowedBook{fixtures.OpenLoan("loan-1", "copy-k1", "s1", now)},
	}
}

func Test_QueryHandler_Handle(t *testing.T) {
	tests := []struct {
		name        string
		query       searchcatalog.Query
		expectedIDs []string
	}{
		{name: "accent-insensitive match on title and publisher", query: searchcatalog.BuildQuery("istanbul", ""), expectedIDs: []string{"tpl-ist", "tpl-kuy"}},
		{name: "category narrows", query: searchcatalog.BuildQuery("istanbul", "Polisiye"), expectedIDs: []string{"tpl-ist"}},
		{name: "empty text lists all active", query: searchcatalog.BuildQuery("  ", core.CategoryAll), expectedIDs: []string{"tpl-ist", "tpl-kuy"}},
		{name: "no match", query: searchcatalog.BuildQuery("sinekli bakkal", ""), expectedIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// setup
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			handler := searchcatalog.NewQueryHandler(fixtures.SnapshotLoader(ctx, t, givenLibrary()))

			// act
			result, err := handler.Handle(ctx, tt.query)

			// assert
			require.NoError(t, err)
			ids := make([]string, 0, len(result.Entries))
			for _, entry := range result.Entries {
				ids = append(ids, entry.Template.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
			assert.Equal(t, len(tt.expectedIDs), result.Count)
		})
	}
}

func Test_QueryHandler_Handle_CountsActiveAndAvailableCopies(t *testing.T) {
	// setup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	handler := searchcatalog.NewQueryHandler(fixtures.SnapshotLoader(ctx, t, givenLibrary()))

	// act
	result, err := handler.Handle(ctx, searchcatalog.BuildQuery("kuyucakli", ""))

	// assert
	require.NoError(t, err)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, 2, result.Entries[0].CopyCount, "the deleted copy is not counted")
	assert.Equal(t, 1, result.Entries[0].AvailableCount, "copy-k1 is on loan even though its stored flag says available")
}
