package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-go/library/shared/core"
)

func Test_Normalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "İSTANBUL", expected: "istanbul"},
		{input: "istanbul", expected: "istanbul"},
		{input: "ISTANBUL", expected: "istanbul"},
		{input: "ıstanbul", expected: "istanbul"},
		{input: "Çalıkuşu", expected: "calikusu"},
		{input: "Öğretmen Günü", expected: "ogretmen gunu"},
		{input: "Café", expected: "cafe"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, core.Normalize(tt.input))
		})
	}

	assert.Equal(t, core.Normalize("İSTANBUL"), core.Normalize("istanbul"))
}

func Test_FilterTemplates(t *testing.T) {
	templates := []core.BookTemplate{
		{ID: "t1", Title: "İstanbul Kitabı", Author: "Ahmet Hamdi", Category: "Roman", ISBN: "9780306406157"},
		{ID: "t2", Title: "Çalıkuşu", Author: "Reşat Nuri Güntekin", Category: "Roman"},
		{ID: "t3", Title: "Beyaz Kale", Author: "Orhan Pamuk", Category: "Roman", Publisher: "İletişim"},
		{ID: "t4", Title: "Dünya Tarihi", Author: "Anonim", Category: "Tarih"},
		{ID: "t5", Title: "Eski İstanbul", Category: "Tarih", Lifecycle: core.Deleted(date(2024, 1, 1))},
	}

	tests := []struct {
		name        string
		searchText  string
		category    string
		expectedIDs []string
	}{
		{name: "diacritic insensitive title", searchText: "istanbul", category: core.CategoryAll, expectedIDs: []string{"t1"}},
		{name: "author", searchText: "RESAT", category: "", expectedIDs: []string{"t2"}},
		{name: "publisher", searchText: "iletisim", category: core.CategoryAll, expectedIDs: []string{"t3"}},
		{name: "isbn", searchText: "0306406", category: core.CategoryAll, expectedIDs: []string{"t1"}},
		{name: "category only sorted by title", searchText: "", category: "Roman", expectedIDs: []string{"t3", "t2", "t1"}},
		{name: "category and search", searchText: "a", category: "Tarih", expectedIDs: []string{"t4"}},
		{name: "unknown category", searchText: "", category: "Şiir", expectedIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := core.FilterTemplates(templates, tt.searchText, tt.category)

			ids := make([]string, 0, len(result))
			for _, template := range result {
				ids = append(ids, template.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func Test_FilterStudents(t *testing.T) {
	students := []core.Student{
		{ID: "s1", Name: "Zeynep", Surname: "Kaya", StudentNumber: "11111111", Email: "zeynep@okul.edu.tr"},
		{ID: "s2", Name: "Ali", Surname: "Şahin", StudentNumber: "22222222"},
		{ID: "s3", Name: "Ali", Surname: "Çelik", StudentNumber: "33333333"},
		{ID: "s4", Name: "Deniz", Surname: "Ak", StudentNumber: "44444444", Lifecycle: core.Deleted(date(2024, 1, 1))},
	}

	assert.Equal(t, []string{"s3", "s2", "s1"}, studentIDs(core.FilterStudents(students, "")))
	assert.Equal(t, []string{"s2"}, studentIDs(core.FilterStudents(students, "ali sahin")), "Should search the full name")
	assert.Equal(t, []string{"s1"}, studentIDs(core.FilterStudents(students, "OKUL.EDU")))
	assert.Equal(t, []string{"s2"}, studentIDs(core.FilterStudents(students, "2222")))
	assert.Empty(t, core.FilterStudents(students, "deniz"), "Should not list deleted students")
}

func Test_FilterLoans(t *testing.T) {
	library := givenLibrary()
	loans := givenLoans()
	now := date(2024, 1, 25)

	tests := []struct {
		name        string
		searchText  string
		status      core.LoanStatusFilter
		expectedIDs []string
	}{
		{name: "all newest first", status: core.LoanStatusAll, expectedIDs: []string{"l2", "l5", "l3", "l1", "l4"}},
		{name: "active", status: core.LoanStatusActive, expectedIDs: []string{"l2", "l1"}},
		{name: "returned", status: core.LoanStatusReturned, expectedIDs: []string{"l5", "l3", "l4"}},
		{name: "overdue", status: core.LoanStatusOverdue, expectedIDs: []string{"l1"}},
		{name: "by template title through copy", searchText: "nutuk", status: core.LoanStatusAll, expectedIDs: []string{"l2", "l4"}},
		{name: "by barcode", searchText: "LIB001002", status: core.LoanStatusAll, expectedIDs: []string{"l3"}},
		{name: "by student", searchText: "ayse", status: core.LoanStatusActive, expectedIDs: []string{"l2", "l1"}},
		{name: "unresolvable copy does not match", searchText: "LIB", status: core.LoanStatusReturned, expectedIDs: []string{"l3", "l4"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := core.FilterLoans(loans, tt.searchText, tt.status, library, now)

			assert.Equal(t, tt.expectedIDs, loanIDs(result))
		})
	}
}

func Test_ParseLoanStatusFilter(t *testing.T) {
	status, ok := core.ParseLoanStatusFilter(" Overdue ")
	assert.True(t, ok)
	assert.Equal(t, core.LoanStatusOverdue, status)

	status, ok = core.ParseLoanStatusFilter("")
	assert.True(t, ok)
	assert.Equal(t, core.LoanStatusAll, status)

	_, ok = core.ParseLoanStatusFilter("lost")
	assert.False(t, ok)
}

func studentIDs(students []core.Student) []string {
	ids := make([]string, 0, len(students))
	for _, student := range students {
		ids = append(ids, student.ID)
	}

	return ids
}
