package searchloans_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/features/query/searchloans"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
)

var now = time.Date(2024, 10, 10, 9, 0, 0, 0, time.UTC)

func givenLibrary() core.Collections {
	return core.Collections{
		Templates: []core.BookTemplate{
			fixtures.Template("tpl-1", "Kuyucaklı Yusuf"),
			fixtures.Template("tpl-2", "Saatleri Ayarlama Enstitüsü"),
		},
		Copies: []core.BookCopy{
			fixtures.Copy("copy-1", "tpl-1", 1, 1),
			fixtures.Copy("copy-2", "tpl-2", 2, 1),
		},
		Students: []core.Student{
			fixtures.Student("s1", "12345678", "Ayşe", "Yılmaz"),
			fixtures.Student("s2", "87654321", "Mehmet", "Kaya"),
		},
		Loans: []core.BorrowedBook{
			fixtures.ReturnedLoan("returned", "copy-1", "s1", now.AddDate(0, 0, -40), now.AddDate(0, 0, -35)),
			fixtures.OpenLoan("overdue", "copy-2", "s2", now.AddDate(0, 0, -20)),
			fixtures.OpenLoan("active", "copy-1", "s2", now.AddDate(0, 0, -2)),
		},
	}
}

func Test_BuildQuery_RejectsUnknownStatus(t *testing.T) {
	_, err := searchloans.BuildQuery("", "lost", now)

	assert.ErrorIs(t, err, searchloans.ErrUnknownStatus)
}

func Test_QueryHandler_Handle(t *testing.T) {
	tests := []struct {
		name        string
		searchText  string
		status      string
		expectedIDs []string
	}{
		{name: "all newest first", status: "", expectedIDs: []string{"active", "overdue", "returned"}},
		{name: "active includes overdue", status: "active", expectedIDs: []string{"active", "overdue"}},
		{name: "overdue only", status: "OVERDUE", expectedIDs: []string{"overdue"}},
		{name: "returned only", status: "returned", expectedIDs: []string{"returned"}},
		{name: "through template title", searchText: "kuyucakli", status: "all", expectedIDs: []string{"active", "returned"}},
		{name: "through barcode", searchText: "lib002", status: "all", expectedIDs: []string{"overdue"}},
		{name: "through student name", searchText: "ayse", status: "all", expectedIDs: []string{"returned"}},
		{name: "text and status combined", searchText: "mehmet", status: "overdue", expectedIDs: []string{"overdue"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// setup
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			handler := searchloans.NewQueryHandler(fixtures.SnapshotLoader(ctx, t, givenLibrary()))

			query, err := searchloans.BuildQuery(tt.searchText, tt.status, now)
			require.NoError(t, err)

			// act
			result, err := handler.Handle(ctx, query)

			// assert
			require.NoError(t, err)
			ids := make([]string, 0, len(result.Loans))
			for _, view := range result.Loans {
				ids = append(ids, view.Loan.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
			assert.Equal(t, len(tt.expectedIDs), result.Count)
		})
	}
}
