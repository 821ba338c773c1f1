package tabular_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andremfs/bookline/internal/tabular"
)

func TestRows_CommaDelimited(t *testing.T) {
	input := "2024-01-15,Office supplies,,150.00,0,Completed,PROJ1,\n" +
		"2024-01-16,Invoice 42,,0,900.00,Pending,PROJ2,consulting\n"

	rows, err := tabular.Rows(strings.NewReader(input), tabular.Options{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Office supplies", rows[0][1])
	assert.Equal(t, "900.00", rows[1][4])
}

func TestRows_TabDelimited(t *testing.T) {
	// Pasted from a spreadsheet: tab-separated, commas inside cells.
	input := "2024-01-15\tOffice supplies, misc\t\t150.00\t0\tCompleted\tPROJ1\t\n"

	rows, err := tabular.Rows(strings.NewReader(input), tabular.Options{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Office supplies, misc", rows[0][1])
	assert.Len(t, rows[0], 8)
}

func TestRows_SkipHeader(t *testing.T) {
	input := "date,description,description2,expense,income,status,project,category\n" +
		"2024-01-15,Office supplies,,150.00,0,Completed,PROJ1,\n"

	withHeader, err := tabular.Rows(strings.NewReader(input), tabular.Options{SkipHeader: true})
	require.NoError(t, err)
	require.Len(t, withHeader, 1)
	assert.Equal(t, "2024-01-15", withHeader[0][0])

	// No auto-detection: without the flag the header row comes through.
	without, err := tabular.Rows(strings.NewReader(input), tabular.Options{})
	require.NoError(t, err)
	assert.Len(t, without, 2)
}

func TestRows_DropsBlankLines(t *testing.T) {
	input := "\n2024-01-15,Coffee,,3.20,0,Completed,,\n\n\n2024-01-16,Tea,,2.10,0,Completed,,\n"

	rows, err := tabular.Rows(strings.NewReader(input), tabular.Options{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestRows_ForcedDelimiter(t *testing.T) {
	// A forced comma wins over what auto-detection would pick.
	input := "a\tb,c\n"

	rows, err := tabular.Rows(strings.NewReader(input), tabular.Options{Delimiter: ','})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a\tb", "c"}, rows[0])
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ',', tabular.DetectDelimiter("a,b,c\n"))
	assert.Equal(t, '\t', tabular.DetectDelimiter("a\tb\tc\n"))
	assert.Equal(t, '\t', tabular.DetectDelimiter("\n\na\tb\n"))
	// Tie goes to comma.
	assert.Equal(t, ',', tabular.DetectDelimiter("a,b\tc\n"))
	assert.Equal(t, ',', tabular.DetectDelimiter(""))
}
