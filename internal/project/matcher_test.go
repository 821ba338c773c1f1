package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andremfs/bookline/internal/project"
)

func TestExactMatcher(t *testing.T) {
	accounts := []project.Account{
		{Code: "PROJ1", Name: "Office Refit"},
		{Code: "PROJ10", Name: "Warehouse"},
		{Code: "proj2", Name: "Lowercase Project"},
	}

	type testCase struct {
		name     string
		code     string
		wantCode string // empty = no link
	}

	tests := []testCase{
		{name: "ExactMatch", code: "PROJ1", wantCode: "PROJ1"},
		{name: "ExactMatchLonger", code: "PROJ10", wantCode: "PROJ10"},
		{name: "CaseVariantUnlinked", code: "proj1", wantCode: ""},
		{name: "SubstringUnlinked", code: "PROJ", wantCode: ""},
		{name: "SuperstringUnlinked", code: "PROJ100", wantCode: ""},
		{name: "EmptyCodeUnlinked", code: "", wantCode: ""},
		{name: "LowerStoredCode", code: "proj2", wantCode: "proj2"},
	}

	m := project.ExactMatcher{}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.Match(tt.code, accounts)

			if tt.wantCode == "" {
				assert.Nil(t, got)
				return
			}

			if assert.NotNil(t, got) {
				assert.Equal(t, tt.wantCode, got.Code)
			}
		})
	}
}
