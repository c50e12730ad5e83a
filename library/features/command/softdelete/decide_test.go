package softdelete_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/library/features/command/softdelete"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
)

var (
	deletedAt = time.Date(2024, 2, 1, 8, 0, 0, 0, time.UTC)
	now       = time.Date(2024, 3, 5, 11, 30, 0, 0, time.UTC)
)

func givenLibrary() core.Collections {
	deletedStudent := fixtures.Student("s2", "87654321", "Zeynep", "Demir")
	deletedStudent.Lifecycle = fixtures.SoftDeleted(deletedAt)

	return core.Collections{
		Templates: []core.BookTemplate{fixtures.Template("tpl-1", "İnce Memed")},
		Copies: []core.BookCopy{
			fixtures.Lent(fixtures.Copy("copy-1", "tpl-1", 1, 1)),
			fixtures.Copy("copy-2", "tpl-1", 1, 2),
		},
		Students: []core.Student{
			fixtures.Student("s1", "12345678", "Ayşe", "Yılmaz"),
			deletedStudent,
		},
		Loans: []core.BorrowedBook{fixtures.OpenLoan("loan-1", "copy-1", "s1", now.AddDate(0, 0, -3))},
	}
}

func Test_ParseRecordKind(t *testing.T) {
	tests := []struct {
		input    string
		expected softdelete.RecordKind
		wantErr  bool
	}{
		{input: "template", expected: softdelete.KindTemplate},
		{input: " Copy ", expected: softdelete.KindCopy},
		{input: "STUDENT", expected: softdelete.KindStudent},
		{input: "loan", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			kind, err := softdelete.ParseRecordKind(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, kind)
		})
	}
}

func Test_Decide_Success(t *testing.T) {
	tests := []struct {
		name          string
		command       softdelete.Command
		expectDeleted bool
	}{
		{name: "delete template", command: softdelete.BuildDeleteCommand(softdelete.KindTemplate, "tpl-1", now), expectDeleted: true},
		{name: "delete available copy", command: softdelete.BuildDeleteCommand(softdelete.KindCopy, "copy-2", now), expectDeleted: true},
		{name: "delete student", command: softdelete.BuildDeleteCommand(softdelete.KindStudent, "s1", now), expectDeleted: true},
		{name: "restore student", command: softdelete.BuildRestoreCommand(softdelete.KindStudent, "s2", now), expectDeleted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			decision := softdelete.Decide(givenLibrary(), tt.command)

			// assert
			require.NoError(t, decision.HasError())
			assert.True(t, decision.HasWritesToApply())
			assert.Equal(t, tt.expectDeleted, decision.Lifecycle.IsDeleted())

			if tt.expectDeleted {
				at, _ := decision.Lifecycle.DeletedAt()
				assert.Equal(t, now, at)
			}
		})
	}
}

func Test_Decide_Idempotent(t *testing.T) {
	tests := []struct {
		name        string
		command     softdelete.Command
		expectedErr error
	}{
		{
			name:        "delete deleted student",
			command:     softdelete.BuildDeleteCommand(softdelete.KindStudent, "s2", now),
			expectedErr: core.ErrAlreadyDeleted,
		},
		{
			name:        "restore active template",
			command:     softdelete.BuildRestoreCommand(softdelete.KindTemplate, "tpl-1", now),
			expectedErr: core.ErrNotDeleted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// act
			decision := softdelete.Decide(givenLibrary(), tt.command)

			// assert
			require.NoError(t, decision.HasError())
			assert.True(t, decision.IsIdempotent())
			assert.False(t, decision.HasWritesToApply())
			assert.ErrorIs(t, decision.IdempotentReason, tt.expectedErr)
		})
	}
}

func Test_Decide_Error(t *testing.T) {
	tests := []struct {
		name        string
		command     softdelete.Command
		expectedErr error
	}{
		{
			name:        "unknown template",
			command:     softdelete.BuildDeleteCommand(softdelete.KindTemplate, "tpl-9", now),
			expectedErr: core.ErrNotFound,
		},
		{
			name:        "id of another kind",
			command:     softdelete.BuildDeleteCommand(softdelete.KindStudent, "copy-2", now),
			expectedErr: core.ErrNotFound,
		},
		{
			name:        "copy on loan",
			command:     softdelete.BuildDeleteCommand(softdelete.KindCopy, "copy-1", now),
			expectedErr: core.ErrCopyUnavailable,
		},
		{
			name:        "restore student whose number was registered again",
			command:     softdelete.BuildRestoreCommand(softdelete.KindStudent, "s3", now),
			expectedErr: core.ErrStudentNumberTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			library := givenLibrary()
			replaced := fixtures.Student("s3", "12345678", "Ada", "Kaya")
			replaced.Lifecycle = fixtures.SoftDeleted(deletedAt)
			library.Students = append(library.Students, replaced)

			// act
			decision := softdelete.Decide(library, tt.command)

			// assert
			assert.ErrorIs(t, decision.HasError(), tt.expectedErr)
			assert.False(t, decision.HasWritesToApply())
		})
	}
}
