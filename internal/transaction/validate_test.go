package transaction_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andremfs/bookline/internal/transaction"
)

func TestValidate(t *testing.T) {
	type testCase struct {
		name     string
		c        transaction.Candidate
		wantErrs int
	}

	valid := transaction.Candidate{
		Date:        date(2024, time.January, 15),
		Description: "Office supplies",
		Expense:     15000,
		Status:      transaction.StatusCompleted,
	}

	tests := []testCase{
		{name: "Valid", c: valid, wantErrs: 0},
		{
			name: "MissingDescription",
			c: transaction.Candidate{
				Date:   date(2024, time.January, 15),
				Status: transaction.StatusPending,
			},
			wantErrs: 1,
		},
		{
			name: "NegativeExpense",
			c: transaction.Candidate{
				Description: "Refund gone wrong",
				Expense:     -100,
				Status:      transaction.StatusDraft,
			},
			wantErrs: 1,
		},
		{
			name: "BothAmountsSetIsAllowed",
			c: transaction.Candidate{
				Description: "Odd but legal",
				Expense:     100,
				Income:      200,
				Status:      transaction.StatusPending,
			},
			wantErrs: 0,
		},
		{
			name:     "EverythingWrong",
			c:        transaction.Candidate{Expense: -1, Income: -1},
			wantErrs: 4, // description, both amounts, empty status
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := transaction.Validate(tt.c)
			assert.Len(t, errs, tt.wantErrs)
		})
	}
}

func TestParseStatus(t *testing.T) {
	type testCase struct {
		input     string
		want      transaction.Status
		wantKnown bool
	}

	tests := []testCase{
		{input: "draft", want: transaction.StatusDraft, wantKnown: true},
		{input: "Pending", want: transaction.StatusPending, wantKnown: true},
		{input: " COMPLETED ", want: transaction.StatusCompleted, wantKnown: true},
		{input: "done", want: transaction.StatusPending, wantKnown: false},
		{input: "", want: transaction.StatusPending, wantKnown: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, known := transaction.ParseStatus(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantKnown, known)
		})
	}
}
