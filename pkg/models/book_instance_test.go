package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookInstanceFieldLabels(t *testing.T) {
	t.Parallel()
	bi := &BookInstance{}
	assert.Equal(t, "id", FieldLabel(bi, "id"))
	assert.Equal(t, "book", FieldLabel(bi, "book"))
	assert.Equal(t, "imprint", FieldLabel(bi, "imprint"))
	assert.Equal(t, "due back", FieldLabel(bi, "due_back"))
	assert.Equal(t, "status", FieldLabel(bi, "status"))
	assert.Equal(t, "borrower", FieldLabel(bi, "borrower"))
	assert.Equal(t, 200, FieldMaxLength(bi, "imprint"))
}

func TestBookInstanceString(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("8d3c3a0e-4f5b-4ad1-9a53-0cbd2a5e7a11")
	bi := &BookInstance{ID: id, Book: &Book{Title: "T"}}
	assert.Equal(t, "8d3c3a0e-4f5b-4ad1-9a53-0cbd2a5e7a11 (T)", bi.String())
}

func TestBookInstanceIsOverdue(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, time.March, 10, 15, 30, 0, 0, time.UTC)
	today := DateOf(now)

	future := today.AddDays(5)
	past := today.AddDays(-5)

	tests := []struct {
		name    string
		dueBack *Date
		want    bool
	}{
		{"no due date", nil, false},
		{"due in the future", &future, false},
		{"due today", &today, false},
		{"due in the past", &past, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			bi := &BookInstance{DueBack: tt.dueBack}
			assert.Equal(t, tt.want, bi.IsOverdue(now))
		})
	}
}

func TestParseLoanStatus(t *testing.T) {
	t.Parallel()

	status, err := ParseLoanStatus("o")
	require.NoError(t, err)
	assert.Equal(t, LoanStatusOnLoan, status)

	status, err = ParseLoanStatus("available")
	require.NoError(t, err)
	assert.Equal(t, LoanStatusAvailable, status)
	assert.Equal(t, "Available", status.Label())

	_, err = ParseLoanStatus("lost")
	assert.Error(t, err)

	for _, s := range LoanStatuses {
		assert.NotEmpty(t, s.Label())
		assert.LessOrEqual(t, len(s), FieldMaxLength(BookInstance{}, "status"))
	}
}
