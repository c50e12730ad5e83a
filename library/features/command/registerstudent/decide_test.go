package registerstudent_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/library/features/command/registerstudent"
	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
	"github.com/AntonStoeckl/library-lending-go/testutil/fixtures"
)

func Test_Decide_Success(t *testing.T) {
	// act
	decision := registerstudent.Decide(nil, registerstudent.BuildCommand(" 12345678 ", "Zeynep", "Demir", "zeynep@school.example"))

	// assert
	assert.True(t, decision.HasWritesToApply())
	assert.Equal(t, "12345678", decision.Student.StudentNumber)
	assert.Equal(t, "Zeynep Demir", decision.Student.FullName())
}

func Test_Decide_Error(t *testing.T) {
	roster := []core.Student{fixtures.Student("s1", "12345678", "Ayşe", "Yılmaz")}

	tests := []struct {
		name        string
		command     registerstudent.Command
		expectedErr error
	}{
		{name: "short number", command: registerstudent.BuildCommand("1234", "Zeynep", "", ""), expectedErr: core.ErrInvalidStudentNumber},
		{name: "missing name", command: registerstudent.BuildCommand("11112222", " ", "Demir", ""), expectedErr: core.ErrMissingName},
		{name: "taken number", command: registerstudent.BuildCommand("12345678", "Zeynep", "", ""), expectedErr: core.ErrStudentNumberTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := registerstudent.Decide(roster, tt.command)

			assert.ErrorIs(t, decision.HasError(), tt.expectedErr)
		})
	}
}

func Test_Decide_NumberOfDeletedStudentCanBeReused(t *testing.T) {
	student := fixtures.Student("s1", "12345678", "Ayşe", "Yılmaz")
	student.Lifecycle = core.Deleted(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))

	decision := registerstudent.Decide([]core.Student{student}, registerstudent.BuildCommand("12345678", "Zeynep", "", ""))

	assert.NoError(t, decision.HasError())
}
